package documents

import (
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

type Detail struct {
	Id           string          `json:"id"`
	ApplicantId  string          `json:"applicant_id"`
	StageId      string          `json:"stage_id"`
	DocumentType string          `json:"document_type"`
	FileName     string          `json:"file_name"`
	URL          string          `json:"url"`
	UploadedAt   rfctime.RFC3339 `json:"uploaded_at"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.ApplicantId == o.ApplicantId &&
		d.StageId == o.StageId &&
		d.DocumentType == o.DocumentType &&
		d.FileName == o.FileName &&
		d.URL == o.URL &&
		d.UploadedAt.Equal(o.UploadedAt)
}
