package mocks

import (
	"context"
	"errors"

	"github.com/openadmit/openadmit/pkg/domain"
	pipdb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
)

type PipelineInterface struct {
	Impl struct {
		Create        func(ctx context.Context, spec domain.PipelineSpec) (string, error)
		Find          func(ctx context.Context, organizationId string) ([]string, error)
		Get           func(ctx context.Context, pipelineIds []string) (map[string]domain.Pipeline, error)
		Update        func(ctx context.Context, pipelineId string, name string, defaultTimeoutDays int) error
		Delete        func(ctx context.Context, pipelineId string) error
		AddStage      func(ctx context.Context, pipelineId string, spec domain.StageSpec) (string, error)
		UpdateStage   func(ctx context.Context, stageId string, spec domain.StageSpec) error
		DeleteStage   func(ctx context.Context, stageId string) error
		ReorderStages func(ctx context.Context, pipelineId string, orderedStageIds []string) error
	}

	Calls struct {
		Create CallLog[domain.PipelineSpec]
		Find   CallLog[string]
		Get    CallLog[[]string]
		Update CallLog[struct {
			PipelineId         string
			Name               string
			DefaultTimeoutDays int
		}]
		Delete   CallLog[string]
		AddStage CallLog[struct {
			PipelineId string
			Spec       domain.StageSpec
		}]
		UpdateStage CallLog[struct {
			StageId string
			Spec    domain.StageSpec
		}]
		DeleteStage   CallLog[string]
		ReorderStages CallLog[struct {
			PipelineId      string
			OrderedStageIds []string
		}]
	}
}

func NewPipelineInterface() *PipelineInterface {
	return &PipelineInterface{}
}

var _ pipdb.Interface = &PipelineInterface{}

func (m *PipelineInterface) Create(ctx context.Context, spec domain.PipelineSpec) (string, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) Find(ctx context.Context, organizationId string) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, organizationId)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, organizationId)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) Get(ctx context.Context, pipelineIds []string) (map[string]domain.Pipeline, error) {
	m.Calls.Get = append(m.Calls.Get, pipelineIds)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, pipelineIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) Update(ctx context.Context, pipelineId string, name string, defaultTimeoutDays int) error {
	m.Calls.Update = append(m.Calls.Update, struct {
		PipelineId         string
		Name               string
		DefaultTimeoutDays int
	}{PipelineId: pipelineId, Name: name, DefaultTimeoutDays: defaultTimeoutDays})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, pipelineId, name, defaultTimeoutDays)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) Delete(ctx context.Context, pipelineId string) error {
	m.Calls.Delete = append(m.Calls.Delete, pipelineId)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, pipelineId)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) AddStage(ctx context.Context, pipelineId string, spec domain.StageSpec) (string, error) {
	m.Calls.AddStage = append(m.Calls.AddStage, struct {
		PipelineId string
		Spec       domain.StageSpec
	}{PipelineId: pipelineId, Spec: spec})
	if m.Impl.AddStage != nil {
		return m.Impl.AddStage(ctx, pipelineId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) UpdateStage(ctx context.Context, stageId string, spec domain.StageSpec) error {
	m.Calls.UpdateStage = append(m.Calls.UpdateStage, struct {
		StageId string
		Spec    domain.StageSpec
	}{StageId: stageId, Spec: spec})
	if m.Impl.UpdateStage != nil {
		return m.Impl.UpdateStage(ctx, stageId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) DeleteStage(ctx context.Context, stageId string) error {
	m.Calls.DeleteStage = append(m.Calls.DeleteStage, stageId)
	if m.Impl.DeleteStage != nil {
		return m.Impl.DeleteStage(ctx, stageId)
	}
	panic(errors.New("it should not be called"))
}

func (m *PipelineInterface) ReorderStages(ctx context.Context, pipelineId string, orderedStageIds []string) error {
	m.Calls.ReorderStages = append(m.Calls.ReorderStages, struct {
		PipelineId      string
		OrderedStageIds []string
	}{PipelineId: pipelineId, OrderedStageIds: orderedStageIds})
	if m.Impl.ReorderStages != nil {
		return m.Impl.ReorderStages(ctx, pipelineId, orderedStageIds)
	}
	panic(errors.New("it should not be called"))
}
