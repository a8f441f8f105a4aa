package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/openadmit/openadmit/pkg/utils/cmp"
)

type ElectionPackageStatus string

const (
	// editable by the coordinator.
	PackageDraft ElectionPackageStatus = "draft"

	// submitted; read-only from this module's perspective.
	PackageReady ElectionPackageStatus = "ready"

	// the elections subsystem placed it on a ballot.
	PackageAddedToBallot ElectionPackageStatus = "added_to_ballot"

	// ballot outcome. Terminal.
	PackageElected    ElectionPackageStatus = "elected"
	PackageNotElected ElectionPackageStatus = "not_elected"
)

func (s ElectionPackageStatus) String() string {
	return string(s)
}

func AsElectionPackageStatus(s string) (ElectionPackageStatus, error) {
	switch s {
	case string(PackageDraft):
		return PackageDraft, nil
	case string(PackageReady):
		return PackageReady, nil
	case string(PackageAddedToBallot):
		return PackageAddedToBallot, nil
	case string(PackageElected):
		return PackageElected, nil
	case string(PackageNotElected):
		return PackageNotElected, nil
	default:
		return "", fmt.Errorf("'%s' is not ElectionPackageStatus", s)
	}
}

// CanTransit tells whether the package lifecycle permits s -> to.
//
// draft -> ready is this module's submit; everything after ready is
// driven by the elections subsystem.
func (s ElectionPackageStatus) CanTransit(to ElectionPackageStatus) bool {
	switch s {
	case PackageDraft:
		return to == PackageReady
	case PackageReady:
		return to == PackageAddedToBallot
	case PackageAddedToBallot:
		return to == PackageElected || to == PackageNotElected
	default:
		return false
	}
}

var (
	ErrInvalidPackageStateChanging = errors.New("cannot change election package state")

	// the package is past draft; its fields are read-only here.
	ErrPackageNotEditable = errors.New("election package is not editable")

	// the applicant does not occupy an active election stage.
	ErrNotOnElectionStage = errors.New("applicant is not on an election stage")
)

func NewErrInvalidPackageStateChanging(from, to ElectionPackageStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidPackageStateChanging, from, to)
}

// Field-level snapshot taken when the package is created, governed by the
// election stage's PackageFields toggles. Name is always present.
type PackageSnapshot struct {
	Name        string     `json:"name"`
	Email       *string    `json:"email,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Address     *string    `json:"address,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	Documents    []Document          `json:"documents,omitempty"`
	StageHistory []StageHistoryEntry `json:"stage_history,omitempty"`

	// shown to the coordinator while drafting, if configured.
	NotePrompt string `json:"note_prompt,omitempty"`
}

func strPtrEqual(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (s PackageSnapshot) Equal(o PackageSnapshot) bool {
	return s.Name == o.Name &&
		strPtrEqual(s.Email, o.Email) &&
		strPtrEqual(s.Phone, o.Phone) &&
		strPtrEqual(s.Address, o.Address) &&
		timePtrEqual(s.DateOfBirth, o.DateOfBirth) &&
		s.NotePrompt == o.NotePrompt &&
		cmp.SliceContentEqWith(
			s.Documents, o.Documents,
			func(a, b Document) bool { return a.Equal(&b) },
		) &&
		cmp.SliceContentEqWith(
			s.StageHistory, o.StageHistory,
			func(a, b StageHistoryEntry) bool { return a.Equal(&b) },
		)
}

// The record handed to the elections subsystem for a membership vote.
//
// At most one live package exists per applicant and stage; it is created
// lazily the first time the record is fetched while the applicant occupies
// an election stage.
type ElectionPackage struct {
	Id          string
	ApplicantId string
	StageId     string

	Status   ElectionPackageStatus
	Snapshot PackageSnapshot

	CoordinatorNotes    string
	SupportingStatement string

	// set when the package left draft.
	SubmittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *ElectionPackage) Equal(o *ElectionPackage) bool {
	if (p == nil) || (o == nil) {
		return (p == nil) && (o == nil)
	}
	return p.Id == o.Id &&
		p.ApplicantId == o.ApplicantId &&
		p.StageId == o.StageId &&
		p.Status == o.Status &&
		p.Snapshot.Equal(o.Snapshot) &&
		p.CoordinatorNotes == o.CoordinatorNotes &&
		p.SupportingStatement == o.SupportingStatement &&
		timePtrEqual(p.SubmittedAt, o.SubmittedAt)
}
