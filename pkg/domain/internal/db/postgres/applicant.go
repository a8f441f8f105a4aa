package internal

import (
	"context"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
)

// GetApplicantBody retrieves the core records of applicants, without
// stage history.
func GetApplicantBody(ctx context.Context, conn xpool.Queryer, applicantIds []string) (map[string]domain.ApplicantBody, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"applicant_id", "pipeline_id",
			"name", "email", "phone", "date_of_birth", "address",
			"target_membership_type", "target_role_id", "target_role_name",
			"status", "current_stage_id", "stage_entered_at",
			"deactivated_at", "reactivated_at",
			"withdrawn_at", "withdrawal_reason", "escalated_at",
			"notes", "member_id", "membership_number",
			"created_at", "updated_at"
		from "applicant"
		where "applicant_id" = any($1)
		`,
		applicantIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]domain.ApplicantBody{}
	for rows.Next() {
		var (
			body           domain.ApplicantBody
			status         ApplicantStatus
			membershipType string
		)
		if err := rows.Scan(
			&body.Id, &body.PipelineId,
			&body.Profile.Name, &body.Profile.Email, &body.Profile.Phone,
			&body.Profile.DateOfBirth, &body.Profile.Address,
			&membershipType, &body.TargetRoleId, &body.TargetRoleName,
			&status, &body.CurrentStageId, &body.StageEnteredAt,
			&body.DeactivatedAt, &body.ReactivatedAt,
			&body.WithdrawnAt, &body.WithdrawalReason, &body.EscalatedAt,
			&body.Notes, &body.MemberId, &body.MembershipNumber,
			&body.CreatedAt, &body.UpdatedAt,
		); err != nil {
			return nil, err
		}
		body.Status = domain.ApplicantStatus(status)

		mt, err := domain.AsMembershipType(membershipType)
		if err != nil {
			return nil, err
		}
		body.TargetMembershipType = mt

		result[body.Id] = body
	}

	return result, nil
}

// GetApplicant retrieves applicants with their stage history, artifacts
// attached to each history entry by (applicant, stage).
func GetApplicant(ctx context.Context, conn xpool.Queryer, applicantIds []string) (map[string]domain.Applicant, error) {
	bodies, err := GetApplicantBody(ctx, conn, applicantIds)
	if err != nil {
		return nil, err
	}

	histories, err := getHistories(ctx, conn, applicantIds)
	if err != nil {
		return nil, err
	}

	documents, err := getDocuments(ctx, conn, applicantIds)
	if err != nil {
		return nil, err
	}

	result := map[string]domain.Applicant{}
	for applicantId, body := range bodies {
		history := histories[applicantId]
		for i, entry := range history {
			history[i].Artifacts = documents[artifactKey{
				ApplicantId: applicantId, StageId: entry.StageId,
			}]
		}
		result[applicantId] = domain.Applicant{
			ApplicantBody: body,
			History:       history,
		}
	}
	return result, nil
}

func getHistories(ctx context.Context, conn xpool.Queryer, applicantIds []string) (map[string][]domain.StageHistoryEntry, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"history_id", "applicant_id", "stage_id", "stage_name",
			"entered_at", "completed_at", "completed_by", "notes"
		from "stage_history"
		where "applicant_id" = any($1)
		order by "applicant_id", "entered_at"
		`,
		applicantIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string][]domain.StageHistoryEntry{}
	for rows.Next() {
		var entry domain.StageHistoryEntry
		if err := rows.Scan(
			&entry.Id, &entry.ApplicantId, &entry.StageId, &entry.StageName,
			&entry.EnteredAt, &entry.CompletedAt, &entry.CompletedBy, &entry.Notes,
		); err != nil {
			return nil, err
		}
		result[entry.ApplicantId] = append(result[entry.ApplicantId], entry)
	}

	return result, nil
}

type artifactKey struct {
	ApplicantId string
	StageId     string
}

func getDocuments(ctx context.Context, conn xpool.Queryer, applicantIds []string) (map[artifactKey][]domain.Document, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"document_id", "applicant_id", "stage_id",
			"document_type", "file_name", "url", "uploaded_at"
		from "document"
		where "applicant_id" = any($1)
		order by "uploaded_at"
		`,
		applicantIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[artifactKey][]domain.Document{}
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(
			&doc.Id, &doc.ApplicantId, &doc.StageId,
			&doc.DocumentType, &doc.FileName, &doc.URL, &doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		key := artifactKey{ApplicantId: doc.ApplicantId, StageId: doc.StageId}
		result[key] = append(result[key], doc)
	}

	return result, nil
}
