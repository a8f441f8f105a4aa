package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apipipelines "github.com/openadmit/openadmit/pkg/api/types/pipelines"
	binderr "github.com/openadmit/openadmit/pkg/api-types-binding/errors"
	bindpipelines "github.com/openadmit/openadmit/pkg/api-types-binding/pipelines"
	"github.com/openadmit/openadmit/pkg/domain"
	pipelinedb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

func asStageSpec(in apipipelines.StageSpec) (domain.StageSpec, error) {
	stageType, err := domain.AsStageType(in.Type)
	if err != nil {
		return domain.StageSpec{}, err
	}
	config, err := domain.UnmarshalStageConfig(stageType, in.Config)
	if err != nil {
		return domain.StageSpec{}, err
	}

	spec := domain.StageSpec{
		Name:                       in.Name,
		Type:                       stageType,
		Config:                     config,
		IsRequired:                 in.IsRequired,
		TimeoutDays:                in.TimeoutDays,
		NotifyProspectOnCompletion: in.NotifyProspectOnCompletion,
		PublicVisible:              in.PublicVisible,
	}
	return spec, spec.Validate()
}

func PipelineRegisterHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		specInReq := new(apipipelines.PipelineSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		stages, err := slices.MapUntilError(specInReq.Stages, asStageSpec)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		spec := domain.PipelineSpec{
			OrganizationId:     specInReq.OrganizationId,
			Name:               specInReq.Name,
			DefaultTimeoutDays: specInReq.DefaultTimeoutDays,
			Stages:             stages,
		}
		if err := spec.Validate(); err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		pipelineId, err := dbpipeline.Create(ctx, spec)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		pipelines, err := dbpipeline.Get(ctx, []string{pipelineId})
		if err != nil {
			return binderr.InternalServerError(err)
		}
		pipeline, ok := pipelines[pipelineId]
		if !ok {
			return binderr.InternalServerError(errors.New("registered pipeline is lost"))
		}

		return c.JSON(http.StatusOK, bindpipelines.ComposeDetail(pipeline))
	}
}

func FindPipelineHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		pipelineIds, err := dbpipeline.Find(ctx, c.QueryParam("organization"))
		if err != nil {
			return binderr.InternalServerError(err)
		}

		pipelines, err := dbpipeline.Get(ctx, pipelineIds)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		resp := make([]apipipelines.Detail, 0, len(pipelines))
		for _, pipelineId := range pipelineIds {
			if p, ok := pipelines[pipelineId]; ok {
				resp = append(resp, bindpipelines.ComposeDetail(p))
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetPipelineHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pipelineId := c.Param("pipelineId")

		pipelines, err := dbpipeline.Get(ctx, []string{pipelineId})
		if err != nil {
			return binderr.InternalServerError(err)
		}
		pipeline, ok := pipelines[pipelineId]
		if !ok {
			return binderr.NotFound()
		}

		return c.JSON(http.StatusOK, bindpipelines.ComposeDetail(pipeline))
	}
}

func UpdatePipelineHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pipelineId := c.Param("pipelineId")

		specInReq := new(apipipelines.PipelineUpdateSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}
		if specInReq.Name == "" {
			return binderr.BadRequest("pipeline name is required", nil)
		}
		if specInReq.DefaultTimeoutDays < 1 {
			return binderr.BadRequest("default timeout must be positive", nil)
		}

		if err := dbpipeline.Update(
			ctx, pipelineId, specInReq.Name, specInReq.DefaultTimeoutDays,
		); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		pipelines, err := dbpipeline.Get(ctx, []string{pipelineId})
		if err != nil {
			return binderr.InternalServerError(err)
		}
		pipeline, ok := pipelines[pipelineId]
		if !ok {
			return binderr.NotFound()
		}

		return c.JSON(http.StatusOK, bindpipelines.ComposeDetail(pipeline))
	}
}

func DeletePipelineHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pipelineId := c.Param("pipelineId")

		if err := dbpipeline.Delete(ctx, pipelineId); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			if errors.Is(err, domain.ErrPipelineInUse) {
				return binderr.Conflict(
					"pipeline has applicants",
					binderr.WithAdvice("move or remove its applicants first"),
					binderr.WithError(err),
				)
			}
			return binderr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func AddStageHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pipelineId := c.Param("pipelineId")

		specInReq := new(apipipelines.StageSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		spec, err := asStageSpec(*specInReq)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		if _, err := dbpipeline.AddStage(ctx, pipelineId, spec); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		pipelines, err := dbpipeline.Get(ctx, []string{pipelineId})
		if err != nil {
			return binderr.InternalServerError(err)
		}
		pipeline, ok := pipelines[pipelineId]
		if !ok {
			return binderr.NotFound()
		}

		return c.JSON(http.StatusOK, bindpipelines.ComposeDetail(pipeline))
	}
}

func UpdateStageHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		stageId := c.Param("stageId")

		specInReq := new(apipipelines.StageSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		spec, err := asStageSpec(*specInReq)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		if err := dbpipeline.UpdateStage(ctx, stageId, spec); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func DeleteStageHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		stageId := c.Param("stageId")

		if err := dbpipeline.DeleteStage(ctx, stageId); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			if errors.Is(err, domain.ErrStageOccupied) {
				return binderr.Conflict(
					"an applicant occupies the stage",
					binderr.WithAdvice("advance or move the occupants first"),
					binderr.WithError(err),
				)
			}
			return binderr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func ReorderStagesHandler(dbpipeline pipelinedb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pipelineId := c.Param("pipelineId")

		req := new(apipipelines.ReorderRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}
		if len(req.StageIds) == 0 {
			return binderr.BadRequest("stage_ids is required", nil)
		}

		if err := dbpipeline.ReorderStages(ctx, pipelineId, req.StageIds); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			if errors.Is(err, domain.ErrStageSetMismatch) {
				return binderr.BadRequest(
					"stage_ids must name every stage of the pipeline exactly once", err,
				)
			}
			return binderr.InternalServerError(err)
		}

		pipelines, err := dbpipeline.Get(ctx, []string{pipelineId})
		if err != nil {
			return binderr.InternalServerError(err)
		}
		pipeline, ok := pipelines[pipelineId]
		if !ok {
			return binderr.NotFound()
		}

		return c.JSON(http.StatusOK, bindpipelines.ComposeDetail(pipeline))
	}
}
