package documents

import (
	apidocuments "github.com/openadmit/openadmit/pkg/api/types/documents"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

func ComposeDetail(d domain.Document) apidocuments.Detail {
	return apidocuments.Detail{
		Id:           d.Id,
		ApplicantId:  d.ApplicantId,
		StageId:      d.StageId,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		URL:          d.URL,
		UploadedAt:   rfctime.RFC3339(d.UploadedAt),
	}
}
