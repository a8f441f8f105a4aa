package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/openadmit/openadmit/pkg/utils/cmp"
)

type ApplicantStatus string

const (
	// This applicant is progressing through the pipeline.
	Active ApplicantStatus = "active"

	// This applicant is paused by a coordinator. No stage tracking happens.
	OnHold ApplicantStatus = "on_hold"

	// This applicant left the pipeline on their own. Terminal.
	Withdrawn ApplicantStatus = "withdrawn"

	// This applicant was rejected by the organization. Terminal.
	Rejected ApplicantStatus = "rejected"

	// This applicant has become a member. Terminal.
	//
	// Reachable only via a successful conversion, never via a status update.
	Converted ApplicantStatus = "converted"

	// This applicant sat on a stage past its inactivity timeout.
	//
	// Set by the inactivity loop, not by a user action.
	Inactive ApplicantStatus = "inactive"
)

func (s ApplicantStatus) String() string {
	return string(s)
}

func AsApplicantStatus(status string) (ApplicantStatus, error) {
	switch status {
	case string(Active):
		return Active, nil
	case string(OnHold):
		return OnHold, nil
	case string(Withdrawn):
		return Withdrawn, nil
	case string(Rejected):
		return Rejected, nil
	case string(Converted):
		return Converted, nil
	case string(Inactive):
		return Inactive, nil
	default:
		return "", fmt.Errorf("'%s' is not ApplicantStatus", status)
	}
}

// Terminal statuses have no outgoing transitions.
func (s ApplicantStatus) IsTerminal() bool {
	switch s {
	case Withdrawn, Rejected, Converted:
		return true
	default:
		return false
	}
}

// CanTransit tells whether the status state machine permits s -> to.
//
// Advancing stages is not a status transition (active stays active), and
// Converted is excluded here: it is reachable only through the conversion
// operation, never through a status update.
func (s ApplicantStatus) CanTransit(to ApplicantStatus) bool {
	switch s {
	case Active:
		switch to {
		case OnHold, Withdrawn, Rejected, Inactive:
			return true
		}
	case OnHold:
		switch to {
		case Active, Withdrawn, Rejected:
			return true
		}
	case Inactive:
		switch to {
		case Active, Rejected:
			return true
		}
	}
	return false
}

type MembershipType string

const (
	Probationary   MembershipType = "probationary"
	Administrative MembershipType = "administrative"
)

func (m MembershipType) String() string {
	return string(m)
}

func AsMembershipType(s string) (MembershipType, error) {
	switch s {
	case string(Probationary):
		return Probationary, nil
	case string(Administrative):
		return Administrative, nil
	default:
		return "", fmt.Errorf("'%s' is not MembershipType", s)
	}
}

// Contact fields of an applicant.
type Profile struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Address     string
}

func (p Profile) Equal(o Profile) bool {
	dobEq := (p.DateOfBirth == nil && o.DateOfBirth == nil) ||
		(p.DateOfBirth != nil && o.DateOfBirth != nil && p.DateOfBirth.Equal(*o.DateOfBirth))

	return p.Name == o.Name &&
		p.Email == o.Email &&
		p.Phone == o.Phone &&
		p.Address == o.Address &&
		dobEq
}

// Core part of an applicant record.
type ApplicantBody struct {
	Id         string
	PipelineId string
	Profile    Profile

	TargetMembershipType MembershipType
	TargetRoleId         string
	TargetRoleName       string

	Status ApplicantStatus

	// stage the applicant occupies now. Always a stage of PipelineId.
	CurrentStageId string
	StageEnteredAt time.Time

	// set by the corresponding transitions; zero when never happened.
	DeactivatedAt    *time.Time
	ReactivatedAt    *time.Time
	WithdrawnAt      *time.Time
	WithdrawalReason string

	// stamped when the escalation loop reported this applicant as critical.
	// Reset by advance and reactivate.
	EscalatedAt *time.Time

	Notes string

	// conversion result. Set if and only if Status == Converted.
	MemberId         string
	MembershipNumber string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func timePtrEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

func (a *ApplicantBody) Equal(o *ApplicantBody) bool {
	if (a == nil) || (o == nil) {
		return (a == nil) && (o == nil)
	}

	return a.Id == o.Id &&
		a.PipelineId == o.PipelineId &&
		a.Profile.Equal(o.Profile) &&
		a.TargetMembershipType == o.TargetMembershipType &&
		a.TargetRoleId == o.TargetRoleId &&
		a.TargetRoleName == o.TargetRoleName &&
		a.Status == o.Status &&
		a.CurrentStageId == o.CurrentStageId &&
		a.StageEnteredAt.Equal(o.StageEnteredAt) &&
		timePtrEqual(a.DeactivatedAt, o.DeactivatedAt) &&
		timePtrEqual(a.ReactivatedAt, o.ReactivatedAt) &&
		timePtrEqual(a.WithdrawnAt, o.WithdrawnAt) &&
		a.WithdrawalReason == o.WithdrawalReason &&
		timePtrEqual(a.EscalatedAt, o.EscalatedAt) &&
		a.Notes == o.Notes &&
		a.MemberId == o.MemberId &&
		a.MembershipNumber == o.MembershipNumber
}

type Applicant struct {
	ApplicantBody

	// stage occupancy records, oldest first.
	//
	// At most one entry is open (CompletedAt == nil): the current stage.
	History []StageHistoryEntry
}

func (a *Applicant) Equal(o *Applicant) bool {
	if (a == nil) || (o == nil) {
		return (a == nil) && (o == nil)
	}
	return a.ApplicantBody.Equal(&o.ApplicantBody) &&
		cmp.SliceContentEqWith(
			a.History, o.History,
			func(x, y StageHistoryEntry) bool { return x.Equal(&y) },
		)
}

// parameter to create a new applicant.
type ApplicantSpec struct {
	PipelineId           string
	Profile              Profile
	TargetMembershipType MembershipType
	TargetRoleId         string
	TargetRoleName       string
	Notes                string
}

// parameter to update an applicant's profile, target fields and notes.
type ProfileUpdate struct {
	Profile              Profile
	TargetMembershipType MembershipType
	TargetRoleId         string
	TargetRoleName       string
	Notes                string
}

// parameter to query applicants.
//
// When all dimensions match an applicant, this query matches the applicant.
// Empty dimensions match any.
type ApplicantFindQuery struct {
	PipelineId     []string
	StageId        []string
	Status         []ApplicantStatus
	MembershipType []MembershipType

	// substring match against name and email, case-insensitive.
	Search string
}

func (q ApplicantFindQuery) Equal(o ApplicantFindQuery) bool {
	return cmp.SliceContentEq(q.PipelineId, o.PipelineId) &&
		cmp.SliceContentEq(q.StageId, o.StageId) &&
		cmp.SliceContentEq(q.Status, o.Status) &&
		cmp.SliceContentEq(q.MembershipType, o.MembershipType) &&
		q.Search == o.Search
}

// pagination window. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

const DefaultPageSize = 25

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// ApplicantCursor is the pick position of a background loop over applicants.
type ApplicantCursor struct {
	// Id of applicant which is picked at last time.
	Head string

	// interval to pick the same applicant again.
	Debounce time.Duration

	// statuses of applicants to be picked.
	Status []ApplicantStatus
}

func (c ApplicantCursor) Equal(other ApplicantCursor) bool {
	return c.Head == other.Head &&
		cmp.SliceContentEq(c.Status, other.Status)
}

var (
	ErrMissing = errors.New("missing record")
	ErrTooMuch = errors.New("too much records")

	ErrInvalidStatusChanging = errors.New("cannot change applicant status")

	// the current stage's completion requirement is not satisfied.
	ErrStageIncomplete = errors.New("stage requirement is not satisfied")

	// advance was requested on the last stage; conversion is the way out.
	ErrFinalStage = errors.New("the applicant is on the final stage")

	// the operation does not fit the applicant's current stage type.
	ErrWrongStageType = errors.New("operation does not match the stage type")

	// none of the actor's roles is permitted to approve the stage.
	ErrApproverNotPermitted = errors.New("approver role is not permitted")

	// the stage is configured to require approval notes.
	ErrNotesRequired = errors.New("approval notes are required")
)

func NewErrInvalidStatusChanging(from, to ApplicantStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusChanging, from, to)
}
