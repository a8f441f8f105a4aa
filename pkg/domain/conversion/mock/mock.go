package mock

import (
	"context"
	"errors"

	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/conversion"
)

type Provisioner struct {
	Impl struct {
		Provision func(ctx context.Context, applicant domain.Applicant, spec domain.ConversionSpec) (domain.ConversionResult, error)
	}

	Calls struct {
		Provision []struct {
			Applicant domain.Applicant
			Spec      domain.ConversionSpec
		}
	}
}

func New() *Provisioner {
	return &Provisioner{}
}

var _ conversion.Provisioner = &Provisioner{}

func (m *Provisioner) Provision(ctx context.Context, applicant domain.Applicant, spec domain.ConversionSpec) (domain.ConversionResult, error) {
	m.Calls.Provision = append(m.Calls.Provision, struct {
		Applicant domain.Applicant
		Spec      domain.ConversionSpec
	}{Applicant: applicant, Spec: spec})
	if m.Impl.Provision != nil {
		return m.Impl.Provision(ctx, applicant, spec)
	}
	panic(errors.New("it should not be called"))
}
