package internal

import (
	"context"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

func GetPipelineBody(ctx context.Context, conn xpool.Queryer, pipelineIds []string) (map[string]domain.PipelineBody, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"pipeline_id", "organization_id", "name",
			"default_timeout_days", "created_at", "updated_at"
		from "pipeline"
		where "pipeline_id" = any($1)
		`,
		pipelineIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]domain.PipelineBody{}
	for rows.Next() {
		var body domain.PipelineBody
		if err := rows.Scan(
			&body.Id, &body.OrganizationId, &body.Name,
			&body.DefaultTimeoutDays, &body.CreatedAt, &body.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result[body.Id] = body
	}

	return result, nil
}

// GetStages retrieves the stages of pipelines, keyed by pipeline id and
// ordered by sort order.
func GetStages(ctx context.Context, conn xpool.Queryer, pipelineIds []string) (map[string][]domain.Stage, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"stage_id", "pipeline_id", "name", "stage_type", "config",
			"is_required", "timeout_days",
			"notify_prospect_on_completion", "public_visible", "sort_order"
		from "stage"
		where "pipeline_id" = any($1)
		order by "pipeline_id", "sort_order"
		`,
		pipelineIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string][]domain.Stage{}
	for rows.Next() {
		var (
			stage     domain.Stage
			stageType StageType
			rawConfig []byte
		)
		if err := rows.Scan(
			&stage.Id, &stage.PipelineId, &stage.Name, &stageType, &rawConfig,
			&stage.IsRequired, &stage.TimeoutDays,
			&stage.NotifyProspectOnCompletion, &stage.PublicVisible, &stage.SortOrder,
		); err != nil {
			return nil, err
		}
		stage.Type = domain.StageType(stageType)

		config, err := domain.UnmarshalStageConfig(stage.Type, rawConfig)
		if err != nil {
			return nil, err
		}
		stage.Config = config

		result[stage.PipelineId] = append(result[stage.PipelineId], stage)
	}

	return result, nil
}

// GetStage retrieves single stages by their ids.
func GetStage(ctx context.Context, conn xpool.Queryer, stageIds []string) (map[string]domain.Stage, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"stage_id", "pipeline_id", "name", "stage_type", "config",
			"is_required", "timeout_days",
			"notify_prospect_on_completion", "public_visible", "sort_order"
		from "stage"
		where "stage_id" = any($1)
		`,
		stageIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]domain.Stage{}
	for rows.Next() {
		var (
			stage     domain.Stage
			stageType StageType
			rawConfig []byte
		)
		if err := rows.Scan(
			&stage.Id, &stage.PipelineId, &stage.Name, &stageType, &rawConfig,
			&stage.IsRequired, &stage.TimeoutDays,
			&stage.NotifyProspectOnCompletion, &stage.PublicVisible, &stage.SortOrder,
		); err != nil {
			return nil, err
		}
		stage.Type = domain.StageType(stageType)

		config, err := domain.UnmarshalStageConfig(stage.Type, rawConfig)
		if err != nil {
			return nil, err
		}
		stage.Config = config

		result[stage.Id] = stage
	}

	return result, nil
}

func GetPipeline(ctx context.Context, conn xpool.Queryer, pipelineIds []string) (map[string]domain.Pipeline, error) {
	bodies, err := GetPipelineBody(ctx, conn, pipelineIds)
	if err != nil {
		return nil, err
	}

	stages, err := GetStages(ctx, conn, slices.KeysOf(bodies))
	if err != nil {
		return nil, err
	}

	result := map[string]domain.Pipeline{}
	for pipelineId, body := range bodies {
		result[pipelineId] = domain.Pipeline{
			PipelineBody: body,
			Stages:       stages[pipelineId],
		}
	}
	return result, nil
}
