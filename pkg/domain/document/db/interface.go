package db

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
)

type Interface interface {
	// Register stores the metadata of an uploaded document and returns
	// its id. The bytes are already placed behind spec.URL.
	Register(ctx context.Context, spec domain.DocumentSpec) (string, error)

	// ListByApplicant returns the applicant's documents, newest first.
	ListByApplicant(ctx context.Context, applicantId string) ([]domain.Document, error)

	// Get retrieves one document.
	Get(ctx context.Context, documentId string) (domain.Document, error)

	// Delete removes the document record.
	Delete(ctx context.Context, documentId string) error
}
