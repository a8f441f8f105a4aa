package applicants

import (
	"time"

	apiapplicants "github.com/openadmit/openadmit/pkg/api/types/applicants"
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

func ComposeProfile(p domain.Profile) apiapplicants.Profile {
	return apiapplicants.Profile{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: composeTime(p.DateOfBirth),
		Address:     p.Address,
	}
}

// ComposeSummary binds an applicant body together with its derived
// alert level. The alert depends on the stage's effective timeout,
// which the caller resolves against the pipeline.
func ComposeSummary(body domain.ApplicantBody, alert domain.AlertLevel) apiapplicants.Summary {
	return apiapplicants.Summary{
		Id:                   body.Id,
		PipelineId:           body.PipelineId,
		Profile:              ComposeProfile(body.Profile),
		TargetMembershipType: body.TargetMembershipType.String(),
		Status:               body.Status.String(),
		CurrentStageId:       body.CurrentStageId,
		StageEnteredAt:       rfctime.RFC3339(body.StageEnteredAt),
		Alert:                alert.String(),
	}
}

func ComposeHistoryEntry(e domain.StageHistoryEntry) apiapplicants.HistoryEntry {
	return apiapplicants.HistoryEntry{
		Id:          e.Id,
		StageId:     e.StageId,
		StageName:   e.StageName,
		EnteredAt:   rfctime.RFC3339(e.EnteredAt),
		CompletedAt: composeTime(e.CompletedAt),
		CompletedBy: e.CompletedBy,
		Notes:       e.Notes,
		Artifacts:   slices.Map(e.Artifacts, binddocuments.ComposeDetail),
	}
}

func ComposeDetail(a domain.Applicant, alert domain.AlertLevel) apiapplicants.Detail {
	return apiapplicants.Detail{
		Summary:          ComposeSummary(a.ApplicantBody, alert),
		TargetRoleId:     a.TargetRoleId,
		TargetRoleName:   a.TargetRoleName,
		DeactivatedAt:    composeTime(a.DeactivatedAt),
		ReactivatedAt:    composeTime(a.ReactivatedAt),
		WithdrawnAt:      composeTime(a.WithdrawnAt),
		WithdrawalReason: a.WithdrawalReason,
		EscalatedAt:      composeTime(a.EscalatedAt),
		Notes:            a.Notes,
		MemberId:         a.MemberId,
		MembershipNumber: a.MembershipNumber,
		CreatedAt:        rfctime.RFC3339(a.CreatedAt),
		UpdatedAt:        rfctime.RFC3339(a.UpdatedAt),
		History:          slices.Map(a.History, ComposeHistoryEntry),
	}
}
