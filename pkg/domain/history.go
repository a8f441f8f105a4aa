package domain

import (
	"time"

	"github.com/openadmit/openadmit/pkg/utils/cmp"
)

// Record of an applicant's occupancy of one stage.
//
// The stage name is snapshotted so history survives stage renames.
type StageHistoryEntry struct {
	Id          string
	ApplicantId string
	StageId     string
	StageName   string

	EnteredAt time.Time

	// nil while this entry is the applicant's current stage occupancy.
	CompletedAt *time.Time
	CompletedBy string

	Notes string

	// documents uploaded against this stage.
	Artifacts []Document
}

func (e *StageHistoryEntry) Equal(o *StageHistoryEntry) bool {
	if (e == nil) || (o == nil) {
		return (e == nil) && (o == nil)
	}
	return e.Id == o.Id &&
		e.ApplicantId == o.ApplicantId &&
		e.StageId == o.StageId &&
		e.StageName == o.StageName &&
		e.EnteredAt.Equal(o.EnteredAt) &&
		timePtrEqual(e.CompletedAt, o.CompletedAt) &&
		e.CompletedBy == o.CompletedBy &&
		e.Notes == o.Notes &&
		cmp.SliceContentEqWith(
			e.Artifacts, o.Artifacts,
			func(a, b Document) bool { return a.Equal(&b) },
		)
}

func (e *StageHistoryEntry) IsOpen() bool {
	return e != nil && e.CompletedAt == nil
}

// A document uploaded for an applicant, tagged with the stage and the
// document type it satisfies. Bytes live behind the storage collaborator;
// only the reference is kept here.
type Document struct {
	Id           string
	ApplicantId  string
	StageId      string
	DocumentType string
	FileName     string
	URL          string
	UploadedAt   time.Time
}

func (d *Document) Equal(o *Document) bool {
	if (d == nil) || (o == nil) {
		return (d == nil) && (o == nil)
	}
	return d.Id == o.Id &&
		d.ApplicantId == o.ApplicantId &&
		d.StageId == o.StageId &&
		d.DocumentType == o.DocumentType &&
		d.FileName == o.FileName &&
		d.URL == o.URL &&
		d.UploadedAt.Equal(o.UploadedAt)
}

// parameter to register an uploaded document.
type DocumentSpec struct {
	ApplicantId  string
	StageId      string
	DocumentType string
	FileName     string
	URL          string
}

// A form submission linked to an applicant. Satisfies form stages whose
// configured form id matches.
type FormSubmissionRecord struct {
	Id          string
	ApplicantId string
	FormId      string
	SubmittedAt time.Time
}

// A manual approval recorded against an approval stage.
type ApprovalRecord struct {
	Id           string
	ApplicantId  string
	StageId      string
	ApprovedBy   string
	ApproverRole string
	Notes        string
	ApprovedAt   time.Time
}
