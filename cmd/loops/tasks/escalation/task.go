package escalation

import (
	"context"
	"time"

	"github.com/openadmit/openadmit/cmd/loops/recurring"
	"github.com/openadmit/openadmit/pkg/domain"
	admdb "github.com/openadmit/openadmit/pkg/domain/admission/db"
)

// initial value for task
func Seed() domain.ApplicantCursor {
	return domain.ApplicantCursor{
		Status:   []domain.ApplicantStatus{domain.Active},
		Debounce: 30 * time.Second,
	}
}

// Task for the escalation loop.
//
// Each cycle picks one active applicant whose stage deadline entered the
// critical window and stamps it escalated, once. Advancing or
// reactivating clears the stamp.
func Task(database admdb.Database) recurring.Task[domain.ApplicantCursor] {
	return func(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
		nextCursor, escalated, err := database.Applicant().PickAndEscalate(ctx, cursor)
		return nextCursor, escalated, err
	}
}
