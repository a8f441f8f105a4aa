package elections

import (
	"github.com/openadmit/openadmit/pkg/api/types/applicants"
	"github.com/openadmit/openadmit/pkg/api/types/documents"
	"github.com/openadmit/openadmit/pkg/utils/cmp"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

// Applicant fields frozen into the package when it was created.
// Which optional fields appear is decided by the election stage config.
type Snapshot struct {
	Name        string           `json:"name"`
	Email       *string          `json:"email,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Address     *string          `json:"address,omitempty"`
	DateOfBirth *rfctime.RFC3339 `json:"date_of_birth,omitempty"`

	Documents    []documents.Detail        `json:"documents,omitempty"`
	StageHistory []applicants.HistoryEntry `json:"stage_history,omitempty"`

	NotePrompt string `json:"note_prompt,omitempty"`
}

func strPtrEq(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (s Snapshot) Equal(o Snapshot) bool {
	dobEq := (s.DateOfBirth == nil && o.DateOfBirth == nil) ||
		(s.DateOfBirth != nil && o.DateOfBirth != nil && s.DateOfBirth.Equal(*o.DateOfBirth))

	return s.Name == o.Name &&
		strPtrEq(s.Email, o.Email) &&
		strPtrEq(s.Phone, o.Phone) &&
		strPtrEq(s.Address, o.Address) &&
		dobEq &&
		s.NotePrompt == o.NotePrompt &&
		cmp.SliceContentEqWith(s.Documents, o.Documents, documents.Detail.Equal) &&
		cmp.SliceContentEqWith(s.StageHistory, o.StageHistory, applicants.HistoryEntry.Equal)
}

type PackageDetail struct {
	Id          string `json:"id"`
	ApplicantId string `json:"applicant_id"`
	StageId     string `json:"stage_id"`

	Status   string   `json:"status"`
	Snapshot Snapshot `json:"snapshot"`

	CoordinatorNotes    string `json:"coordinator_notes,omitempty"`
	SupportingStatement string `json:"supporting_statement,omitempty"`

	SubmittedAt *rfctime.RFC3339 `json:"submitted_at,omitempty"`

	CreatedAt rfctime.RFC3339 `json:"created_at"`
	UpdatedAt rfctime.RFC3339 `json:"updated_at"`
}

func (p PackageDetail) Equal(o PackageDetail) bool {
	submittedEq := (p.SubmittedAt == nil && o.SubmittedAt == nil) ||
		(p.SubmittedAt != nil && o.SubmittedAt != nil && p.SubmittedAt.Equal(*o.SubmittedAt))

	return p.Id == o.Id &&
		p.ApplicantId == o.ApplicantId &&
		p.StageId == o.StageId &&
		p.Status == o.Status &&
		p.Snapshot.Equal(o.Snapshot) &&
		p.CoordinatorNotes == o.CoordinatorNotes &&
		p.SupportingStatement == o.SupportingStatement &&
		submittedEq
}

// parameter to save draft edits. A save replaces both fields.
type UpdateRequest struct {
	CoordinatorNotes    string `json:"coordinator_notes,omitempty"`
	SupportingStatement string `json:"supporting_statement,omitempty"`
}

// parameter to submit the package. Fields carried here are saved as
// pending edits; omitted fields keep their saved draft values.
type SubmitRequest struct {
	CoordinatorNotes    *string `json:"coordinator_notes,omitempty"`
	SupportingStatement *string `json:"supporting_statement,omitempty"`
}

// parameter for the elections subsystem to report ballot progress:
// "added_to_ballot", "elected" or "not_elected".
type BallotStatusRequest struct {
	Status string `json:"status"`
}
