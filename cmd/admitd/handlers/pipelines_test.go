package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openadmit/openadmit/cmd/admitd/handlers"
	httptestutil "github.com/openadmit/openadmit/internal/testutils/http"
	apipipelines "github.com/openadmit/openadmit/pkg/api/types/pipelines"
	bindpipelines "github.com/openadmit/openadmit/pkg/api-types-binding/pipelines"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/admission/db/mocks"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	httperr := new(echo.HTTPError)
	if !errors.As(err, &httperr) {
		t.Fatalf("error is not echo.HTTPError: %+v", err)
	}
	return httperr.Code
}

func dummyPipeline(pipelineId string) domain.Pipeline {
	timestamp, _ := time.Parse(time.RFC3339, "2025-10-01T12:00:00+00:00")
	return domain.Pipeline{
		PipelineBody: domain.PipelineBody{
			Id:                 pipelineId,
			OrganizationId:     "org-1",
			Name:               "membership intake",
			DefaultTimeoutDays: 30,
			CreatedAt:          timestamp,
			UpdatedAt:          timestamp,
		},
		Stages: []domain.Stage{
			{
				Id: "stage-1", PipelineId: pipelineId, Name: "application form",
				Type:       domain.FormSubmission,
				Config:     domain.FormStageConfig{FormId: "form-1"},
				IsRequired: true, SortOrder: 0,
			},
			{
				Id: "stage-2", PipelineId: pipelineId, Name: "board approval",
				Type:       domain.ManualApproval,
				Config:     domain.ManualApprovalConfig{ApproverRoles: []string{"board"}},
				IsRequired: true, SortOrder: 1,
			},
		},
	}
}

func TestPipelineRegisterHandler(t *testing.T) {
	t.Run("when a valid spec is requested, it responds the created pipeline", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		pipeline := dummyPipeline("pipeline-1")
		mockDB.MockPipeline().Impl.Create = func(
			ctx context.Context, spec domain.PipelineSpec,
		) (string, error) {
			return "pipeline-1", nil
		}
		mockDB.MockPipeline().Impl.Get = func(
			ctx context.Context, ids []string,
		) (map[string]domain.Pipeline, error) {
			return map[string]domain.Pipeline{"pipeline-1": pipeline}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/pipelines",
			strings.NewReader(`{
				"organization_id": "org-1",
				"name": "membership intake",
				"default_timeout_days": 30,
				"stages": [
					{
						"name": "application form",
						"type": "form_submission",
						"config": {"form_id": "form-1"},
						"is_required": true
					}
				]
			}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.PipelineRegisterHandler(mockDB.Pipeline())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusOK)
		}

		if mockDB.MockPipeline().Calls.Create.Times() != 1 {
			t.Fatalf("Create should be called once")
		}
		created := mockDB.MockPipeline().Calls.Create[0]
		if created.Name != "membership intake" || created.DefaultTimeoutDays != 30 {
			t.Errorf("unexpected spec passed to Create: %+v", created)
		}
		if len(created.Stages) != 1 || created.Stages[0].Type != domain.FormSubmission {
			t.Errorf("unexpected stages passed to Create: %+v", created.Stages)
		}

		actual := apipipelines.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if expected := bindpipelines.ComposeDetail(pipeline); !actual.Equal(expected) {
			t.Errorf("unmatch: response: (actual, expected) = (%+v, %+v)", actual, expected)
		}
	})

	t.Run("when the stage config is broken, it responds 400", func(t *testing.T) {
		mockDB := mocks.NewDatabase()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/pipelines",
			strings.NewReader(`{
				"organization_id": "org-1",
				"name": "membership intake",
				"default_timeout_days": 30,
				"stages": [
					{"name": "form", "type": "form_submission", "config": {}}
				]
			}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.PipelineRegisterHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusBadRequest {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusBadRequest)
		}
	})

	t.Run("when the stage type is unknown, it responds 400", func(t *testing.T) {
		mockDB := mocks.NewDatabase()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/pipelines",
			strings.NewReader(`{
				"organization_id": "org-1",
				"name": "membership intake",
				"default_timeout_days": 30,
				"stages": [
					{"name": "x", "type": "no-such-type", "config": {}}
				]
			}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.PipelineRegisterHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusBadRequest {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusBadRequest)
		}
	})
}

func TestGetPipelineHandler(t *testing.T) {
	t.Run("when the pipeline exists, it responds its detail", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		pipeline := dummyPipeline("pipeline-1")
		mockDB.MockPipeline().Impl.Get = func(
			ctx context.Context, ids []string,
		) (map[string]domain.Pipeline, error) {
			return map[string]domain.Pipeline{"pipeline-1": pipeline}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/pipelines/pipeline-1")
		c.SetParamNames("pipelineId")
		c.SetParamValues("pipeline-1")

		testee := handlers.GetPipelineHandler(mockDB.Pipeline())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := apipipelines.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if expected := bindpipelines.ComposeDetail(pipeline); !actual.Equal(expected) {
			t.Errorf("unmatch: response: (actual, expected) = (%+v, %+v)", actual, expected)
		}
	})

	t.Run("when the pipeline does not exist, it responds 404", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockPipeline().Impl.Get = func(
			ctx context.Context, ids []string,
		) (map[string]domain.Pipeline, error) {
			return map[string]domain.Pipeline{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/pipelines/no-such-pipeline")
		c.SetParamNames("pipelineId")
		c.SetParamValues("no-such-pipeline")

		testee := handlers.GetPipelineHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusNotFound {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusNotFound)
		}
	})
}

func TestDeletePipelineHandler(t *testing.T) {
	t.Run("when the pipeline has applicants, it responds 409", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockPipeline().Impl.Delete = func(ctx context.Context, pipelineId string) error {
			return domain.ErrPipelineInUse
		}

		e := echo.New()
		c, _ := httptestutil.Delete(e, "/api/pipelines/pipeline-1")
		c.SetParamNames("pipelineId")
		c.SetParamValues("pipeline-1")

		testee := handlers.DeletePipelineHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusConflict {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusConflict)
		}
	})

	t.Run("when the pipeline is removed, it responds 204", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockPipeline().Impl.Delete = func(ctx context.Context, pipelineId string) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Delete(e, "/api/pipelines/pipeline-1")
		c.SetParamNames("pipelineId")
		c.SetParamValues("pipeline-1")

		testee := handlers.DeletePipelineHandler(mockDB.Pipeline())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusNoContent)
		}
	})
}

func TestDeleteStageHandler(t *testing.T) {
	t.Run("when an applicant occupies the stage, it responds 409", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockPipeline().Impl.DeleteStage = func(ctx context.Context, stageId string) error {
			return domain.ErrStageOccupied
		}

		e := echo.New()
		c, _ := httptestutil.Delete(e, "/api/stages/stage-1")
		c.SetParamNames("stageId")
		c.SetParamValues("stage-1")

		testee := handlers.DeleteStageHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusConflict {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusConflict)
		}
	})
}

func TestReorderStagesHandler(t *testing.T) {
	t.Run("when stage ids do not match the pipeline, it responds 400", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		mockDB.MockPipeline().Impl.ReorderStages = func(
			ctx context.Context, pipelineId string, orderedStageIds []string,
		) error {
			return domain.NewErrStageSetMismatch(pipelineId)
		}

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/pipelines/pipeline-1/stages/order",
			strings.NewReader(`{"stage_ids": ["stage-2", "stage-x"]}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("pipelineId")
		c.SetParamValues("pipeline-1")

		testee := handlers.ReorderStagesHandler(mockDB.Pipeline())
		err := testee(c)
		if actual := statusOf(t, err); actual != http.StatusBadRequest {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", actual, http.StatusBadRequest)
		}
	})

	t.Run("when the new order is applied, it responds the pipeline", func(t *testing.T) {
		mockDB := mocks.NewDatabase()
		pipeline := dummyPipeline("pipeline-1")
		mockDB.MockPipeline().Impl.ReorderStages = func(
			ctx context.Context, pipelineId string, orderedStageIds []string,
		) error {
			return nil
		}
		mockDB.MockPipeline().Impl.Get = func(
			ctx context.Context, ids []string,
		) (map[string]domain.Pipeline, error) {
			return map[string]domain.Pipeline{"pipeline-1": pipeline}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/api/pipelines/pipeline-1/stages/order",
			strings.NewReader(`{"stage_ids": ["stage-2", "stage-1"]}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("pipelineId")
		c.SetParamValues("pipeline-1")

		testee := handlers.ReorderStagesHandler(mockDB.Pipeline())
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unmatch: status code: (actual, expected) = (%d, %d)", resp.Code, http.StatusOK)
		}

		if mockDB.MockPipeline().Calls.ReorderStages.Times() != 1 {
			t.Fatal("ReorderStages should be called once")
		}
	})
}
