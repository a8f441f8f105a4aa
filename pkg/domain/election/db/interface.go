package db

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
)

type Interface interface {
	// GetOrCreate returns the applicant's election package for their
	// current stage, creating it as a draft on first access.
	//
	// The snapshot is taken at creation time, governed by the stage's
	// package_fields toggles.
	//
	// Errors: domain.ErrNotOnElectionStage unless the applicant is
	// active on an election stage.
	GetOrCreate(ctx context.Context, applicantId string) (domain.ElectionPackage, error)

	// Update edits coordinator notes and the supporting statement.
	//
	// Errors: domain.ErrPackageNotEditable once the package left draft.
	Update(ctx context.Context, applicantId string, actor string, coordinatorNotes string, supportingStatement string) error

	// Submit saves any pending edits and transitions draft -> ready,
	// stamping submitted_at. A nil edit field keeps the saved draft
	// value. The eligible-voter-roles precondition was checked when the
	// stage was configured, not here.
	Submit(ctx context.Context, applicantId string, actor string, coordinatorNotes *string, supportingStatement *string) (domain.ElectionPackage, error)

	// SetBallotStatus is the entry point for the elections subsystem:
	// ready -> added_to_ballot -> elected | not_elected.
	SetBallotStatus(ctx context.Context, applicantId string, newStatus domain.ElectionPackageStatus) error
}
