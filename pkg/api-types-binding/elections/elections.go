package elections

import (
	"time"

	apielections "github.com/openadmit/openadmit/pkg/api/types/elections"
	bindapplicants "github.com/openadmit/openadmit/pkg/api-types-binding/applicants"
	binddocuments "github.com/openadmit/openadmit/pkg/api-types-binding/documents"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

func composeTime(t *time.Time) *rfctime.RFC3339 {
	if t == nil {
		return nil
	}
	r := rfctime.RFC3339(*t)
	return &r
}

func ComposeSnapshot(s domain.PackageSnapshot) apielections.Snapshot {
	return apielections.Snapshot{
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
		DateOfBirth:  composeTime(s.DateOfBirth),
		Documents:    slices.Map(s.Documents, binddocuments.ComposeDetail),
		StageHistory: slices.Map(s.StageHistory, bindapplicants.ComposeHistoryEntry),
		NotePrompt:   s.NotePrompt,
	}
}

func ComposePackageDetail(p domain.ElectionPackage) apielections.PackageDetail {
	return apielections.PackageDetail{
		Id:                  p.Id,
		ApplicantId:         p.ApplicantId,
		StageId:             p.StageId,
		Status:              p.Status.String(),
		Snapshot:            ComposeSnapshot(p.Snapshot),
		CoordinatorNotes:    p.CoordinatorNotes,
		SupportingStatement: p.SupportingStatement,
		SubmittedAt:         composeTime(p.SubmittedAt),
		CreatedAt:           rfctime.RFC3339(p.CreatedAt),
		UpdatedAt:           rfctime.RFC3339(p.UpdatedAt),
	}
}
