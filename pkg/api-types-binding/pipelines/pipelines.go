package pipelines

import (
	"encoding/json"

	apipipelines "github.com/openadmit/openadmit/pkg/api/types/pipelines"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

func ComposeSummary(body domain.PipelineBody) apipipelines.Summary {
	return apipipelines.Summary{
		Id:                 body.Id,
		OrganizationId:     body.OrganizationId,
		Name:               body.Name,
		DefaultTimeoutDays: body.DefaultTimeoutDays,
		CreatedAt:          rfctime.RFC3339(body.CreatedAt),
		UpdatedAt:          rfctime.RFC3339(body.UpdatedAt),
	}
}

func ComposeStageDetail(s domain.Stage) apipipelines.StageDetail {
	// persisted configs always marshal; MarshalStageConfig rejects nil only.
	config, _ := domain.MarshalStageConfig(s.Config)
	return apipipelines.StageDetail{
		Id:                         s.Id,
		Name:                       s.Name,
		Type:                       s.Type.String(),
		Config:                     json.RawMessage(config),
		IsRequired:                 s.IsRequired,
		TimeoutDays:                s.TimeoutDays,
		NotifyProspectOnCompletion: s.NotifyProspectOnCompletion,
		PublicVisible:              s.PublicVisible,
		SortOrder:                  s.SortOrder,
	}
}

func ComposeDetail(p domain.Pipeline) apipipelines.Detail {
	return apipipelines.Detail{
		Summary: ComposeSummary(p.PipelineBody),
		Stages:  slices.Map(p.Stages, ComposeStageDetail),
	}
}
