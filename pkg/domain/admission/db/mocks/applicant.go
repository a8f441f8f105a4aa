package mocks

import (
	"context"
	"errors"

	"github.com/openadmit/openadmit/pkg/domain"
	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
)

type ApplicantInterface struct {
	Impl struct {
		New                  func(ctx context.Context, spec domain.ApplicantSpec) (string, error)
		Find                 func(ctx context.Context, query domain.ApplicantFindQuery, page domain.Page) ([]string, error)
		Count                func(ctx context.Context, query domain.ApplicantFindQuery) (int, error)
		Get                  func(ctx context.Context, applicantIds []string) (map[string]domain.Applicant, error)
		UpdateProfile        func(ctx context.Context, applicantId string, update domain.ProfileUpdate) error
		Delete               func(ctx context.Context, applicantId string) error
		RecordFormSubmission func(ctx context.Context, applicantId string, formId string) (string, error)
		RecordApproval       func(ctx context.Context, applicantId string, actor string, actorRoles []string, notes string) (string, error)
		Advance              func(ctx context.Context, applicantId string, actor string, notes string) error
		Hold                 func(ctx context.Context, applicantId string, actor string, notes string) error
		Resume               func(ctx context.Context, applicantId string, actor string, notes string) error
		Reject               func(ctx context.Context, applicantId string, actor string, notes string) error
		Withdraw             func(ctx context.Context, applicantId string, actor string, reason string) error
		Reactivate           func(ctx context.Context, applicantId string, actor string, notes string) error
		Convert              func(ctx context.Context, applicantId string, actor string, provision func(domain.Applicant) (domain.ConversionResult, error)) error
		PickAndDeactivate    func(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error)
		PickAndEscalate      func(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error)
	}

	Calls struct {
		New  CallLog[domain.ApplicantSpec]
		Find CallLog[struct {
			Query domain.ApplicantFindQuery
			Page  domain.Page
		}]
		Count         CallLog[domain.ApplicantFindQuery]
		Get           CallLog[[]string]
		UpdateProfile CallLog[struct {
			ApplicantId string
			Update      domain.ProfileUpdate
		}]
		Delete               CallLog[string]
		RecordFormSubmission CallLog[struct {
			ApplicantId string
			FormId      string
		}]
		RecordApproval CallLog[struct {
			ApplicantId string
			Actor       string
			ActorRoles  []string
			Notes       string
		}]
		Advance    CallLog[Transition]
		Hold       CallLog[Transition]
		Resume     CallLog[Transition]
		Reject     CallLog[Transition]
		Withdraw   CallLog[Transition]
		Reactivate CallLog[Transition]
		Convert    CallLog[struct {
			ApplicantId string
			Actor       string
		}]
		PickAndDeactivate CallLog[domain.ApplicantCursor]
		PickAndEscalate   CallLog[domain.ApplicantCursor]
	}
}

// Transition is the common argument record of the status operations.
type Transition struct {
	ApplicantId string
	Actor       string
	Notes       string
}

func NewApplicantInterface() *ApplicantInterface {
	return &ApplicantInterface{}
}

var _ appdb.Interface = &ApplicantInterface{}

func (m *ApplicantInterface) New(ctx context.Context, spec domain.ApplicantSpec) (string, error) {
	m.Calls.New = append(m.Calls.New, spec)
	if m.Impl.New != nil {
		return m.Impl.New(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Find(ctx context.Context, query domain.ApplicantFindQuery, page domain.Page) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, struct {
		Query domain.ApplicantFindQuery
		Page  domain.Page
	}{Query: query, Page: page})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query, page)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Count(ctx context.Context, query domain.ApplicantFindQuery) (int, error) {
	m.Calls.Count = append(m.Calls.Count, query)
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Get(ctx context.Context, applicantIds []string) (map[string]domain.Applicant, error) {
	m.Calls.Get = append(m.Calls.Get, applicantIds)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, applicantIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) UpdateProfile(ctx context.Context, applicantId string, update domain.ProfileUpdate) error {
	m.Calls.UpdateProfile = append(m.Calls.UpdateProfile, struct {
		ApplicantId string
		Update      domain.ProfileUpdate
	}{ApplicantId: applicantId, Update: update})
	if m.Impl.UpdateProfile != nil {
		return m.Impl.UpdateProfile(ctx, applicantId, update)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Delete(ctx context.Context, applicantId string) error {
	m.Calls.Delete = append(m.Calls.Delete, applicantId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, applicantId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) RecordFormSubmission(ctx context.Context, applicantId string, formId string) (string, error) {
	m.Calls.RecordFormSubmission = append(m.Calls.RecordFormSubmission, struct {
		ApplicantId string
		FormId      string
	}{ApplicantId: applicantId, FormId: formId})
	if m.Impl.RecordFormSubmission != nil {
		return m.Impl.RecordFormSubmission(ctx, applicantId, formId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) RecordApproval(ctx context.Context, applicantId string, actor string, actorRoles []string, notes string) (string, error) {
	m.Calls.RecordApproval = append(m.Calls.RecordApproval, struct {
		ApplicantId string
		Actor       string
		ActorRoles  []string
		Notes       string
	}{ApplicantId: applicantId, Actor: actor, ActorRoles: actorRoles, Notes: notes})
	if m.Impl.RecordApproval != nil {
		return m.Impl.RecordApproval(ctx, applicantId, actor, actorRoles, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Advance(ctx context.Context, applicantId string, actor string, notes string) error {
	m.Calls.Advance = append(m.Calls.Advance, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: notes,
	})
	if m.Impl.Advance != nil {
		return m.Impl.Advance(ctx, applicantId, actor, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Hold(ctx context.Context, applicantId string, actor string, notes string) error {
	m.Calls.Hold = append(m.Calls.Hold, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: notes,
	})
	if m.Impl.Hold != nil {
		return m.Impl.Hold(ctx, applicantId, actor, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Resume(ctx context.Context, applicantId string, actor string, notes string) error {
	m.Calls.Resume = append(m.Calls.Resume, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: notes,
	})
	if m.Impl.Resume != nil {
		return m.Impl.Resume(ctx, applicantId, actor, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Reject(ctx context.Context, applicantId string, actor string, notes string) error {
	m.Calls.Reject = append(m.Calls.Reject, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: notes,
	})
	if m.Impl.Reject != nil {
		return m.Impl.Reject(ctx, applicantId, actor, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Withdraw(ctx context.Context, applicantId string, actor string, reason string) error {
	m.Calls.Withdraw = append(m.Calls.Withdraw, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: reason,
	})
	if m.Impl.Withdraw != nil {
		return m.Impl.Withdraw(ctx, applicantId, actor, reason)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Reactivate(ctx context.Context, applicantId string, actor string, notes string) error {
	m.Calls.Reactivate = append(m.Calls.Reactivate, Transition{
		ApplicantId: applicantId, Actor: actor, Notes: notes,
	})
	if m.Impl.Reactivate != nil {
		return m.Impl.Reactivate(ctx, applicantId, actor, notes)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) Convert(ctx context.Context, applicantId string, actor string, provision func(domain.Applicant) (domain.ConversionResult, error)) error {
	m.Calls.Convert = append(m.Calls.Convert, struct {
		ApplicantId string
		Actor       string
	}{ApplicantId: applicantId, Actor: actor})
	if m.Impl.Convert != nil {
		return m.Impl.Convert(ctx, applicantId, actor, provision)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) PickAndDeactivate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
	m.Calls.PickAndDeactivate = append(m.Calls.PickAndDeactivate, cursor)
	if m.Impl.PickAndDeactivate != nil {
		return m.Impl.PickAndDeactivate(ctx, cursor)
	}
	panic(errors.New("it should not be called"))
}

func (m *ApplicantInterface) PickAndEscalate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
	m.Calls.PickAndEscalate = append(m.Calls.PickAndEscalate, cursor)
	if m.Impl.PickAndEscalate != nil {
		return m.Impl.PickAndEscalate(ctx, cursor)
	}
	panic(errors.New("it should not be called"))
}
