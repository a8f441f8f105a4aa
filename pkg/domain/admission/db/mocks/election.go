package mocks

import (
	"context"
	"errors"

	"github.com/openadmit/openadmit/pkg/domain"
	eledb "github.com/openadmit/openadmit/pkg/domain/election/db"
)

type ElectionInterface struct {
	Impl struct {
		GetOrCreate     func(ctx context.Context, applicantId string) (domain.ElectionPackage, error)
		Update          func(ctx context.Context, applicantId string, actor string, coordinatorNotes string, supportingStatement string) error
		Submit          func(ctx context.Context, applicantId string, actor string, coordinatorNotes *string, supportingStatement *string) (domain.ElectionPackage, error)
		SetBallotStatus func(ctx context.Context, applicantId string, newStatus domain.ElectionPackageStatus) error
	}

	Calls struct {
		GetOrCreate CallLog[string]
		Update      CallLog[PackageEdit]
		Submit      CallLog[PackageSubmit]

		SetBallotStatus CallLog[struct {
			ApplicantId string
			NewStatus   domain.ElectionPackageStatus
		}]
	}
}

// PackageEdit is the argument record of Update.
type PackageEdit struct {
	ApplicantId         string
	Actor               string
	CoordinatorNotes    string
	SupportingStatement string
}

// PackageSubmit is the argument record of Submit. Nil edit fields mean
// the saved draft values are kept.
type PackageSubmit struct {
	ApplicantId         string
	Actor               string
	CoordinatorNotes    *string
	SupportingStatement *string
}

func NewElectionInterface() *ElectionInterface {
	return &ElectionInterface{}
}

var _ eledb.Interface = &ElectionInterface{}

func (m *ElectionInterface) GetOrCreate(ctx context.Context, applicantId string) (domain.ElectionPackage, error) {
	m.Calls.GetOrCreate = append(m.Calls.GetOrCreate, applicantId)
	if m.Impl.GetOrCreate != nil {
		return m.Impl.GetOrCreate(ctx, applicantId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ElectionInterface) Update(ctx context.Context, applicantId string, actor string, coordinatorNotes string, supportingStatement string) error {
	m.Calls.Update = append(m.Calls.Update, PackageEdit{
		ApplicantId: applicantId, Actor: actor,
		CoordinatorNotes: coordinatorNotes, SupportingStatement: supportingStatement,
	})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, applicantId, actor, coordinatorNotes, supportingStatement)
	}
	panic(errors.New("it should not be called"))
}

func (m *ElectionInterface) Submit(ctx context.Context, applicantId string, actor string, coordinatorNotes *string, supportingStatement *string) (domain.ElectionPackage, error) {
	m.Calls.Submit = append(m.Calls.Submit, PackageSubmit{
		ApplicantId: applicantId, Actor: actor,
		CoordinatorNotes: coordinatorNotes, SupportingStatement: supportingStatement,
	})
	if m.Impl.Submit != nil {
		return m.Impl.Submit(ctx, applicantId, actor, coordinatorNotes, supportingStatement)
	}
	panic(errors.New("it should not be called"))
}

func (m *ElectionInterface) SetBallotStatus(ctx context.Context, applicantId string, newStatus domain.ElectionPackageStatus) error {
	m.Calls.SetBallotStatus = append(m.Calls.SetBallotStatus, struct {
		ApplicantId string
		NewStatus   domain.ElectionPackageStatus
	}{ApplicantId: applicantId, NewStatus: newStatus})
	if m.Impl.SetBallotStatus != nil {
		return m.Impl.SetBallotStatus(ctx, applicantId, newStatus)
	}
	panic(errors.New("it should not be called"))
}
