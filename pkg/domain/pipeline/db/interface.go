package db

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
)

type Interface interface {
	// Create registers a new pipeline with its initial stages
	// and returns its id. Stage configs are validated before this.
	Create(ctx context.Context, spec domain.PipelineSpec) (string, error)

	// Find returns ids of pipelines belonging to organizationId,
	// or all when organizationId is empty.
	Find(ctx context.Context, organizationId string) ([]string, error)

	// Get retrieves pipelines with their stages ordered by sort order.
	//
	// Missing ids are just omitted from the result.
	Get(ctx context.Context, pipelineIds []string) (map[string]domain.Pipeline, error)

	// Update renames the pipeline and/or changes its default timeout.
	Update(ctx context.Context, pipelineId string, name string, defaultTimeoutDays int) error

	// Delete removes the pipeline. It fails while applicants reference it.
	Delete(ctx context.Context, pipelineId string) error

	// AddStage appends a stage at the end of the pipeline and returns
	// its id. Sort order is issued as the current stage count.
	AddStage(ctx context.Context, pipelineId string, spec domain.StageSpec) (string, error)

	// UpdateStage replaces a stage's attributes and config.
	UpdateStage(ctx context.Context, stageId string, spec domain.StageSpec) error

	// DeleteStage removes a stage and renumbers the remaining ones
	// to the contiguous sequence 0..N-1. It fails while an applicant
	// occupies the stage.
	DeleteStage(ctx context.Context, stageId string) error

	// ReorderStages applies orderedStageIds as the new stage order.
	//
	// The set of ids must equal the pipeline's stage set exactly;
	// sort_order values are re-issued as 0..N-1 in one transaction.
	ReorderStages(ctx context.Context, pipelineId string, orderedStageIds []string) error
}
