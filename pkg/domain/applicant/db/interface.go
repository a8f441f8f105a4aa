package db

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
)

// TransitionOps is the operation set of the status state machine.
// Every mutation of an applicant's position flows through these.
type TransitionOps interface {
	// Advance closes the open stage-history entry, opens one for the
	// next stage and moves the applicant there. Status stays active.
	//
	// Errors: domain.ErrStageIncomplete when the current stage's
	// completion requirement is unmet; domain.ErrFinalStage on the last
	// stage (conversion is the way out); domain.ErrInvalidStatusChanging
	// when the applicant is not active.
	Advance(ctx context.Context, applicantId string, actor string, notes string) error

	// Hold pauses an active applicant. The note, when given, is stored
	// on the open stage-history entry.
	Hold(ctx context.Context, applicantId string, actor string, notes string) error

	// Resume puts an on-hold applicant back to active.
	Resume(ctx context.Context, applicantId string, actor string, notes string) error

	// Reject is allowed from active, on_hold and inactive. Terminal.
	// The note, when given, is stored on the open stage-history entry.
	Reject(ctx context.Context, applicantId string, actor string, notes string) error

	// Withdraw is allowed from active and on_hold. Terminal; stamps
	// withdrawn_at and keeps the reason.
	Withdraw(ctx context.Context, applicantId string, actor string, reason string) error

	// Reactivate puts an inactive applicant back to active, stamps
	// reactivated_at and resets stage_entered_at so elapsed-time
	// tracking restarts. The note, when given, is stored on the
	// applicant.
	Reactivate(ctx context.Context, applicantId string, actor string, notes string) error
}

type Interface interface {
	TransitionOps

	// New registers an applicant as active on the pipeline's first
	// stage, opening its first stage-history entry.
	New(ctx context.Context, spec domain.ApplicantSpec) (string, error)

	// Find returns one page of applicant ids matching query, ordered
	// by creation time, newest first.
	Find(ctx context.Context, query domain.ApplicantFindQuery, page domain.Page) ([]string, error)

	// Count returns how many applicants match query in total.
	Count(ctx context.Context, query domain.ApplicantFindQuery) (int, error)

	// Get retrieves applicants with their stage history (artifacts
	// included). Missing ids are just omitted from the result.
	Get(ctx context.Context, applicantIds []string) (map[string]domain.Applicant, error)

	// UpdateProfile replaces contact fields, target fields and
	// free-text notes.
	UpdateProfile(ctx context.Context, applicantId string, update domain.ProfileUpdate) error

	// Delete removes the applicant with its history, documents and
	// election packages.
	Delete(ctx context.Context, applicantId string) error

	// RecordFormSubmission links a submitted form to the applicant.
	RecordFormSubmission(ctx context.Context, applicantId string, formId string) (string, error)

	// RecordApproval stores a manual approval. The caller resolves
	// which of the actor's roles permits approving; the stage config
	// check (permitted role, notes required) happens here.
	RecordApproval(ctx context.Context, applicantId string, actor string, actorRoles []string, notes string) (string, error)

	// Convert performs the two-step handoff: under the applicant's row
	// lock it checks the applicant is active on the completed final
	// stage, calls provision, and only when that succeeds marks the
	// applicant converted with the returned member identity and closes
	// the open history entry.
	Convert(
		ctx context.Context,
		applicantId string,
		actor string,
		provision func(domain.Applicant) (domain.ConversionResult, error),
	) error

	// PickAndDeactivate picks one overdue active applicant, transitions
	// it to inactive and stamps deactivated_at. The picked row is
	// locked; cursor.Head orders the scan so every overdue applicant
	// is eventually picked.
	//
	// Returns (moved cursor, whether an applicant was deactivated, error).
	PickAndDeactivate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error)

	// PickAndEscalate picks one active applicant in the critical window
	// not yet escalated, stamps escalated_at and records an audit entry.
	//
	// Returns (moved cursor, whether an applicant was escalated, error).
	PickAndEscalate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error)
}
