package db

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
)

// Read side of the append-only audit log. Entries are written by the
// other repositories inside their transactions.
type Interface interface {
	// List returns one page of the applicant's audit entries,
	// newest first.
	List(ctx context.Context, applicantId string, page domain.Page) ([]domain.ActivityEntry, error)

	// Count returns the total number of the applicant's audit entries.
	Count(ctx context.Context, applicantId string) (int, error)
}
