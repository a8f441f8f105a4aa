package postgres

import (
	"context"
	"fmt"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	"github.com/openadmit/openadmit/pkg/domain/errors/dberrors"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

type applicantPG struct {
	pool xpool.Pool
}

var _ appdb.Interface = &applicantPG{}

func New(pool xpool.Pool) *applicantPG {
	return &applicantPG{pool: pool}
}

func (m *applicantPG) New(ctx context.Context, spec domain.ApplicantSpec) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var firstStageId, firstStageName string
	if err := tx.QueryRow(
		ctx,
		`
		select "stage_id", "name" from "stage"
		where "pipeline_id" = $1
		order by "sort_order"
		limit 1
		`,
		spec.PipelineId,
	).Scan(&firstStageId, &firstStageName); err != nil {
		if internal.IsNoRows(err) {
			return "", dberrors.Missing{
				Table:    "stage",
				Identity: fmt.Sprintf("pipeline_id = %s (pipeline missing or has no stages)", spec.PipelineId),
			}
		}
		return "", err
	}

	var applicantId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "applicant" (
			"pipeline_id",
			"name", "email", "phone", "date_of_birth", "address",
			"target_membership_type", "target_role_id", "target_role_name",
			"status", "current_stage_id", "notes"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, $11)
		returning "applicant_id"
		`,
		spec.PipelineId,
		spec.Profile.Name, spec.Profile.Email, spec.Profile.Phone,
		spec.Profile.DateOfBirth, spec.Profile.Address,
		spec.TargetMembershipType.String(), spec.TargetRoleId, spec.TargetRoleName,
		firstStageId, spec.Notes,
	).Scan(&applicantId); err != nil {
		return "", err
	}

	if err := openHistory(ctx, tx, applicantId, firstStageId, firstStageName); err != nil {
		return "", err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "created",
		fmt.Sprintf("entered pipeline at stage %s", firstStageName),
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return applicantId, nil
}

func openHistory(ctx context.Context, conn xpool.Queryer, applicantId, stageId, stageName string) error {
	_, err := conn.Exec(
		ctx,
		`
		insert into "stage_history" ("applicant_id", "stage_id", "stage_name")
		values ($1, $2, $3)
		`,
		applicantId, stageId, stageName,
	)
	return err
}

const findCondition = `
	(cardinality($1::varchar[]) = 0 or "pipeline_id" = any($1))
	and (cardinality($2::varchar[]) = 0 or "current_stage_id" = any($2))
	and (cardinality($3::"applicantStatus"[]) = 0 or "status" = any($3))
	and (cardinality($4::varchar[]) = 0 or "target_membership_type" = any($4))
	and ($5 = '' or "name" ilike '%' || $5 || '%' or "email" ilike '%' || $5 || '%')
`

func (m *applicantPG) Find(ctx context.Context, query domain.ApplicantFindQuery, page domain.Page) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	page = page.Normalize()
	rows, err := conn.Query(
		ctx,
		`
		select "applicant_id" from "applicant"
		where `+findCondition+`
		order by "created_at" desc, "applicant_id" desc
		limit $6 offset $7
		`,
		query.PipelineId,
		query.StageId,
		slices.Map(query.Status, domain.ApplicantStatus.String),
		slices.Map(query.MembershipType, domain.MembershipType.String),
		query.Search,
		page.Size, page.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicantIds := []string{}
	for rows.Next() {
		var applicantId string
		if err := rows.Scan(&applicantId); err != nil {
			return nil, err
		}
		applicantIds = append(applicantIds, applicantId)
	}
	return applicantIds, nil
}

func (m *applicantPG) Count(ctx context.Context, query domain.ApplicantFindQuery) (int, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(
		ctx,
		`select count(*) from "applicant" where `+findCondition,
		query.PipelineId,
		query.StageId,
		slices.Map(query.Status, domain.ApplicantStatus.String),
		slices.Map(query.MembershipType, domain.MembershipType.String),
		query.Search,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (m *applicantPG) Get(ctx context.Context, applicantIds []string) (map[string]domain.Applicant, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return internal.GetApplicant(ctx, conn, applicantIds)
}

func (m *applicantPG) UpdateProfile(ctx context.Context, applicantId string, update domain.ProfileUpdate) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(
		ctx,
		`
		update "applicant"
		set
			"name" = $2, "email" = $3, "phone" = $4,
			"date_of_birth" = $5, "address" = $6,
			"target_membership_type" = $7,
			"target_role_id" = $8, "target_role_name" = $9,
			"notes" = $10, "updated_at" = now()
		where "applicant_id" = $1
		`,
		applicantId,
		update.Profile.Name, update.Profile.Email, update.Profile.Phone,
		update.Profile.DateOfBirth, update.Profile.Address,
		update.TargetMembershipType.String(),
		update.TargetRoleId, update.TargetRoleName,
		update.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "applicant", Identity: applicantId}
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "profile_updated", "",
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (m *applicantPG) Delete(ctx context.Context, applicantId string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx, `delete from "applicant" where "applicant_id" = $1`, applicantId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "applicant", Identity: applicantId}
	}
	return nil
}

func (m *applicantPG) RecordFormSubmission(ctx context.Context, applicantId string, formId string) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := lockApplicant(ctx, tx, applicantId); err != nil {
		return "", err
	}

	var submissionId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "form_submission" ("applicant_id", "form_id")
		values ($1, $2)
		returning "submission_id"
		`,
		applicantId, formId,
	).Scan(&submissionId); err != nil {
		return "", err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "form_submitted",
		fmt.Sprintf("form %s", formId),
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return submissionId, nil
}

func (m *applicantPG) RecordApproval(ctx context.Context, applicantId string, actor string, actorRoles []string, notes string) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	locked, err := lockApplicant(ctx, tx, applicantId)
	if err != nil {
		return "", err
	}

	stages, err := internal.GetStage(ctx, tx, []string{locked.CurrentStageId})
	if err != nil {
		return "", err
	}
	stage, ok := stages[locked.CurrentStageId]
	if !ok {
		return "", dberrors.Missing{Table: "stage", Identity: locked.CurrentStageId}
	}

	config, ok := stage.Config.(domain.ManualApprovalConfig)
	if !ok {
		return "", fmt.Errorf(
			"%w: stage %s is %s", domain.ErrWrongStageType, stage.Name, stage.Type,
		)
	}

	role, found := slices.First(actorRoles, func(r string) bool {
		for _, permitted := range config.ApproverRoles {
			if r == permitted {
				return true
			}
		}
		return false
	})
	if !found {
		return "", fmt.Errorf("%w: stage %s", domain.ErrApproverNotPermitted, stage.Name)
	}
	if config.RequireNotes && notes == "" {
		return "", fmt.Errorf("%w: stage %s", domain.ErrNotesRequired, stage.Name)
	}

	var approvalId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "approval" ("applicant_id", "stage_id", "approved_by", "approver_role", "notes")
		values ($1, $2, $3, $4, $5)
		returning "approval_id"
		`,
		applicantId, stage.Id, actor, role, notes,
	).Scan(&approvalId); err != nil {
		return "", err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, "approved",
		fmt.Sprintf("stage %s as %s", stage.Name, role),
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return approvalId, nil
}

// lockedApplicant is the part of an applicant row read under "for update".
type lockedApplicant struct {
	Id             string
	PipelineId     string
	Status         domain.ApplicantStatus
	CurrentStageId string
}

func lockApplicant(ctx context.Context, conn xpool.Queryer, applicantId string) (lockedApplicant, error) {
	var (
		locked lockedApplicant
		status internal.ApplicantStatus
	)
	if err := conn.QueryRow(
		ctx,
		`
		select "applicant_id", "pipeline_id", "status", "current_stage_id"
		from "applicant"
		where "applicant_id" = $1
		for update
		`,
		applicantId,
	).Scan(&locked.Id, &locked.PipelineId, &status, &locked.CurrentStageId); err != nil {
		if internal.IsNoRows(err) {
			return lockedApplicant{}, dberrors.Missing{
				Table: "applicant", Identity: applicantId,
			}
		}
		return lockedApplicant{}, err
	}
	locked.Status = domain.ApplicantStatus(status)
	return locked, nil
}
