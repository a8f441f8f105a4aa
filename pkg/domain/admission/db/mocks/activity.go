package mocks

import (
	"context"
	"errors"

	actdb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	"github.com/openadmit/openadmit/pkg/domain"
)

type ActivityInterface struct {
	Impl struct {
		List  func(ctx context.Context, applicantId string, page domain.Page) ([]domain.ActivityEntry, error)
		Count func(ctx context.Context, applicantId string) (int, error)
	}

	Calls struct {
		List CallLog[struct {
			ApplicantId string
			Page        domain.Page
		}]
		Count CallLog[string]
	}
}

func NewActivityInterface() *ActivityInterface {
	return &ActivityInterface{}
}

var _ actdb.Interface = &ActivityInterface{}

func (m *ActivityInterface) List(ctx context.Context, applicantId string, page domain.Page) ([]domain.ActivityEntry, error) {
	m.Calls.List = append(m.Calls.List, struct {
		ApplicantId string
		Page        domain.Page
	}{ApplicantId: applicantId, Page: page})
	if m.Impl.List != nil {
		return m.Impl.List(ctx, applicantId, page)
	}
	panic(errors.New("it should not be called"))
}

func (m *ActivityInterface) Count(ctx context.Context, applicantId string) (int, error) {
	m.Calls.Count = append(m.Calls.Count, applicantId)
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, applicantId)
	}
	panic(errors.New("it should not be called"))
}
