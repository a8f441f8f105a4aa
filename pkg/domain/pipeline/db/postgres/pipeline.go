package postgres

import (
	"context"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/errors/dberrors"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
	pipdb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	"github.com/openadmit/openadmit/pkg/utils/cmp"
)

type pipelinePG struct {
	pool xpool.Pool
}

var _ pipdb.Interface = &pipelinePG{}

func New(pool xpool.Pool) *pipelinePG {
	return &pipelinePG{pool: pool}
}

func (m *pipelinePG) Create(ctx context.Context, spec domain.PipelineSpec) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var pipelineId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "pipeline" ("organization_id", "name", "default_timeout_days")
		values ($1, $2, $3)
		returning "pipeline_id"
		`,
		spec.OrganizationId, spec.Name, spec.DefaultTimeoutDays,
	).Scan(&pipelineId); err != nil {
		return "", err
	}

	for sortOrder, stage := range spec.Stages {
		if _, err := insertStage(ctx, tx, pipelineId, stage, sortOrder); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return pipelineId, nil
}

func insertStage(ctx context.Context, conn xpool.Queryer, pipelineId string, spec domain.StageSpec, sortOrder int) (string, error) {
	rawConfig, err := domain.MarshalStageConfig(spec.Config)
	if err != nil {
		return "", err
	}

	var stageId string
	if err := conn.QueryRow(
		ctx,
		`
		insert into "stage" (
			"pipeline_id", "name", "stage_type", "config",
			"is_required", "timeout_days",
			"notify_prospect_on_completion", "public_visible", "sort_order"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning "stage_id"
		`,
		pipelineId, spec.Name, string(spec.Type), rawConfig,
		spec.IsRequired, spec.TimeoutDays,
		spec.NotifyProspectOnCompletion, spec.PublicVisible, sortOrder,
	).Scan(&stageId); err != nil {
		return "", dberrors.AsConflict(err)
	}
	return stageId, nil
}

func (m *pipelinePG) Find(ctx context.Context, organizationId string) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select "pipeline_id" from "pipeline"
		where $1 = '' or "organization_id" = $1
		order by "created_at", "pipeline_id"
		`,
		organizationId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pipelineIds := []string{}
	for rows.Next() {
		var pipelineId string
		if err := rows.Scan(&pipelineId); err != nil {
			return nil, err
		}
		pipelineIds = append(pipelineIds, pipelineId)
	}
	return pipelineIds, nil
}

func (m *pipelinePG) Get(ctx context.Context, pipelineIds []string) (map[string]domain.Pipeline, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return internal.GetPipeline(ctx, conn, pipelineIds)
}

func (m *pipelinePG) Update(ctx context.Context, pipelineId string, name string, defaultTimeoutDays int) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		update "pipeline"
		set "name" = $2, "default_timeout_days" = $3, "updated_at" = now()
		where "pipeline_id" = $1
		`,
		pipelineId, name, defaultTimeoutDays,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "pipeline", Identity: pipelineId}
	}
	return nil
}

func (m *pipelinePG) Delete(ctx context.Context, pipelineId string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var applicants int
	if err := tx.QueryRow(
		ctx,
		`select count(*) from "applicant" where "pipeline_id" = $1`,
		pipelineId,
	).Scan(&applicants); err != nil {
		return err
	}
	if 0 < applicants {
		return domain.ErrPipelineInUse
	}

	tag, err := tx.Exec(
		ctx, `delete from "pipeline" where "pipeline_id" = $1`, pipelineId,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "pipeline", Identity: pipelineId}
	}

	return tx.Commit(ctx)
}

func (m *pipelinePG) AddStage(ctx context.Context, pipelineId string, spec domain.StageSpec) (string, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	// lock the pipeline row so concurrent AddStage does not issue the
	// same sort_order.
	var locked string
	if err := tx.QueryRow(
		ctx,
		`select "pipeline_id" from "pipeline" where "pipeline_id" = $1 for update`,
		pipelineId,
	).Scan(&locked); err != nil {
		if internal.IsNoRows(err) {
			return "", dberrors.Missing{Table: "pipeline", Identity: pipelineId}
		}
		return "", err
	}

	var stageCount int
	if err := tx.QueryRow(
		ctx,
		`select count(*) from "stage" where "pipeline_id" = $1`,
		pipelineId,
	).Scan(&stageCount); err != nil {
		return "", err
	}

	stageId, err := insertStage(ctx, tx, pipelineId, spec, stageCount)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return stageId, nil
}

func (m *pipelinePG) UpdateStage(ctx context.Context, stageId string, spec domain.StageSpec) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	rawConfig, err := domain.MarshalStageConfig(spec.Config)
	if err != nil {
		return err
	}

	tag, err := conn.Exec(
		ctx,
		`
		update "stage"
		set
			"name" = $2, "stage_type" = $3, "config" = $4,
			"is_required" = $5, "timeout_days" = $6,
			"notify_prospect_on_completion" = $7, "public_visible" = $8
		where "stage_id" = $1
		`,
		stageId, spec.Name, string(spec.Type), rawConfig,
		spec.IsRequired, spec.TimeoutDays,
		spec.NotifyProspectOnCompletion, spec.PublicVisible,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() < 1 {
		return dberrors.Missing{Table: "stage", Identity: stageId}
	}
	return nil
}

func (m *pipelinePG) DeleteStage(ctx context.Context, stageId string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var pipelineId string
	if err := tx.QueryRow(
		ctx,
		`select "pipeline_id" from "stage" where "stage_id" = $1 for update`,
		stageId,
	).Scan(&pipelineId); err != nil {
		if internal.IsNoRows(err) {
			return dberrors.Missing{Table: "stage", Identity: stageId}
		}
		return err
	}

	var occupants int
	if err := tx.QueryRow(
		ctx,
		`select count(*) from "applicant" where "current_stage_id" = $1`,
		stageId,
	).Scan(&occupants); err != nil {
		return err
	}
	if 0 < occupants {
		return domain.ErrStageOccupied
	}

	if _, err := tx.Exec(
		ctx, `delete from "stage" where "stage_id" = $1`, stageId,
	); err != nil {
		return err
	}

	// close the gap: sort_order stays the contiguous sequence 0..N-1.
	if _, err := tx.Exec(
		ctx,
		`
		with "renumbered" as (
			select
				"stage_id",
				(row_number() over (order by "sort_order")) - 1 as "new_order"
			from "stage"
			where "pipeline_id" = $1
		)
		update "stage"
		set "sort_order" = "renumbered"."new_order"
		from "renumbered"
		where "stage"."stage_id" = "renumbered"."stage_id"
		`,
		pipelineId,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (m *pipelinePG) ReorderStages(ctx context.Context, pipelineId string, orderedStageIds []string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(
		ctx,
		`select "stage_id" from "stage" where "pipeline_id" = $1 for update`,
		pipelineId,
	)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var stageId string
		if err := rows.Scan(&stageId); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, stageId)
	}
	rows.Close()

	if len(existing) == 0 {
		return dberrors.Missing{Table: "pipeline", Identity: pipelineId}
	}
	if !cmp.SliceContentEq(existing, orderedStageIds) {
		return domain.NewErrStageSetMismatch(pipelineId)
	}

	// unique (pipeline_id, sort_order) is deferred, so intermediate
	// duplicates inside the transaction are fine.
	for sortOrder, stageId := range orderedStageIds {
		if _, err := tx.Exec(
			ctx,
			`update "stage" set "sort_order" = $2 where "stage_id" = $1`,
			stageId, sortOrder,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
