package mocks

import (
	"context"
	"errors"

	"github.com/openadmit/openadmit/pkg/domain"
	docdb "github.com/openadmit/openadmit/pkg/domain/document/db"
)

type DocumentInterface struct {
	Impl struct {
		Register        func(ctx context.Context, spec domain.DocumentSpec) (string, error)
		ListByApplicant func(ctx context.Context, applicantId string) ([]domain.Document, error)
		Get             func(ctx context.Context, documentId string) (domain.Document, error)
		Delete          func(ctx context.Context, documentId string) error
	}

	Calls struct {
		Register        CallLog[domain.DocumentSpec]
		ListByApplicant CallLog[string]
		Get             CallLog[string]
		Delete          CallLog[string]
	}
}

func NewDocumentInterface() *DocumentInterface {
	return &DocumentInterface{}
}

var _ docdb.Interface = &DocumentInterface{}

func (m *DocumentInterface) Register(ctx context.Context, spec domain.DocumentSpec) (string, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *DocumentInterface) ListByApplicant(ctx context.Context, applicantId string) ([]domain.Document, error) {
	m.Calls.ListByApplicant = append(m.Calls.ListByApplicant, applicantId)
	if m.Impl.ListByApplicant != nil {
		return m.Impl.ListByApplicant(ctx, applicantId)
	}
	panic(errors.New("it should not be called"))
}

func (m *DocumentInterface) Get(ctx context.Context, documentId string) (domain.Document, error) {
	m.Calls.Get = append(m.Calls.Get, documentId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, documentId)
	}
	panic(errors.New("it should not be called"))
}

func (m *DocumentInterface) Delete(ctx context.Context, documentId string) error {
	m.Calls.Delete = append(m.Calls.Delete, documentId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, documentId)
	}
	panic(errors.New("it should not be called"))
}
