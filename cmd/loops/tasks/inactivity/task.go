package inactivity

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
		// only active applicants accumulate stage time.
		Status:   []domain.ApplicantStatus{domain.Active},
		Debounce: 30 * time.Second,
	}
}

// Task for the inactivity loop.
//
// Each cycle picks one applicant sitting on its stage past the effective
// timeout and transitions it active -> inactive.
func Task(database admdb.Database) recurring.Task[domain.ApplicantCursor] {
	return func(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
		nextCursor, deactivated, err := database.Applicant().PickAndDeactivate(ctx, cursor)
		return nextCursor, deactivated, err
	}
}
