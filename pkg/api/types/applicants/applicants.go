package applicants

import (
	"github.com/openadmit/openadmit/pkg/api/types/documents"
	"github.com/openadmit/openadmit/pkg/utils/cmp"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

type Profile struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone,omitempty"`
	DateOfBirth *rfctime.RFC3339 `json:"date_of_birth,omitempty"`
	Address     string           `json:"address,omitempty"`
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

// parameter to register a new applicant onto a pipeline.
type ApplicantSpec struct {
	PipelineId string `json:"pipeline_id"`
	Profile
	TargetMembershipType string `json:"target_membership_type"`
	TargetRoleId         string `json:"target_role_id,omitempty"`
	TargetRoleName       string `json:"target_role_name,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// parameter to update an applicant's profile fields.
type ProfileUpdateSpec struct {
	Profile
	TargetMembershipType string `json:"target_membership_type"`
	TargetRoleId         string `json:"target_role_id,omitempty"`
	TargetRoleName       string `json:"target_role_name,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// body of status transition requests (hold, resume, reject, reactivate).
type TransitionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type WithdrawRequest struct {
	Reason string `json:"reason,omitempty"`
}

type FormSubmissionRequest struct {
	FormId string `json:"form_id"`
}

type ApprovalRequest struct {
	Notes string `json:"notes,omitempty"`
}

type HistoryEntry struct {
	Id          string             `json:"id"`
	StageId     string             `json:"stage_id"`
	StageName   string             `json:"stage_name"`
	EnteredAt   rfctime.RFC3339    `json:"entered_at"`
	CompletedAt *rfctime.RFC3339   `json:"completed_at,omitempty"`
	CompletedBy string             `json:"completed_by,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Artifacts   []documents.Detail `json:"artifacts,omitempty"`
}

func (h HistoryEntry) Equal(o HistoryEntry) bool {
	completedEq := (h.CompletedAt == nil && o.CompletedAt == nil) ||
		(h.CompletedAt != nil && o.CompletedAt != nil && h.CompletedAt.Equal(*o.CompletedAt))

	return h.Id == o.Id &&
		h.StageId == o.StageId &&
		h.StageName == o.StageName &&
		h.EnteredAt.Equal(o.EnteredAt) &&
		completedEq &&
		h.CompletedBy == o.CompletedBy &&
		h.Notes == o.Notes &&
		cmp.SliceContentEqWith(h.Artifacts, o.Artifacts, documents.Detail.Equal)
}

type Summary struct {
	Id         string `json:"id"`
	PipelineId string `json:"pipeline_id"`
	Profile
	TargetMembershipType string          `json:"target_membership_type"`
	Status               string          `json:"status"`
	CurrentStageId       string          `json:"current_stage_id"`
	StageEnteredAt       rfctime.RFC3339 `json:"stage_entered_at"`

	// derived from stage occupancy and the effective timeout:
	// "normal", "warning" or "critical".
	Alert string `json:"alert"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.PipelineId == o.PipelineId &&
		s.Profile.Equal(o.Profile) &&
		s.TargetMembershipType == o.TargetMembershipType &&
		s.Status == o.Status &&
		s.CurrentStageId == o.CurrentStageId &&
		s.StageEnteredAt.Equal(o.StageEnteredAt) &&
		s.Alert == o.Alert
}

type Detail struct {
	Summary
	TargetRoleId   string `json:"target_role_id,omitempty"`
	TargetRoleName string `json:"target_role_name,omitempty"`

	DeactivatedAt    *rfctime.RFC3339 `json:"deactivated_at,omitempty"`
	ReactivatedAt    *rfctime.RFC3339 `json:"reactivated_at,omitempty"`
	WithdrawnAt      *rfctime.RFC3339 `json:"withdrawn_at,omitempty"`
	WithdrawalReason string           `json:"withdrawal_reason,omitempty"`
	EscalatedAt      *rfctime.RFC3339 `json:"escalated_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	MemberId         string `json:"member_id,omitempty"`
	MembershipNumber string `json:"membership_number,omitempty"`

	CreatedAt rfctime.RFC3339 `json:"created_at"`
	UpdatedAt rfctime.RFC3339 `json:"updated_at"`

	History []HistoryEntry `json:"history"`
}

func timePtrEq(a, b *rfctime.RFC3339) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		d.TargetRoleId == o.TargetRoleId &&
		d.TargetRoleName == o.TargetRoleName &&
		timePtrEq(d.DeactivatedAt, o.DeactivatedAt) &&
		timePtrEq(d.ReactivatedAt, o.ReactivatedAt) &&
		timePtrEq(d.WithdrawnAt, o.WithdrawnAt) &&
		d.WithdrawalReason == o.WithdrawalReason &&
		timePtrEq(d.EscalatedAt, o.EscalatedAt) &&
		d.Notes == o.Notes &&
		d.MemberId == o.MemberId &&
		d.MembershipNumber == o.MembershipNumber &&
		cmp.SliceContentEqWith(d.History, o.History, HistoryEntry.Equal)
}

// one page of a listing.
type Page struct {
	Items []Summary `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int       `json:"total"`
}

type BulkRequest struct {
	Action       string   `json:"action"`
	ApplicantIds []string `json:"applicant_ids"`
	Notes        string   `json:"notes,omitempty"`

	// required true for destructive actions (reject).
	Confirmed bool `json:"confirmed,omitempty"`
}

type BulkFailure struct {
	ApplicantId string `json:"applicant_id"`
	Reason      string `json:"reason"`
}

type BulkResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation,omitempty"`
}

// Step-2 payload of the conversion process.
type ConversionRequest struct {
	TargetMembershipType string `json:"target_membership_type"`
	Rank                 string `json:"rank,omitempty"`
	Station              string `json:"station,omitempty"`
	MiddleName           string `json:"middle_name,omitempty"`

	// "YYYY-MM-DD". Defaults to today when omitted.
	HireDate string `json:"hire_date,omitempty"`

	// Defaults to true when omitted.
	SendWelcomeEmail *bool `json:"send_welcome_email,omitempty"`

	Notes string `json:"notes,omitempty"`

	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
}

type ConversionResult struct {
	MemberId         string `json:"member_id"`
	MembershipNumber string `json:"membership_number"`
	Message          string `json:"message,omitempty"`
}
