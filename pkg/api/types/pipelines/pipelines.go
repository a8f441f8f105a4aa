package pipelines

import (
	"bytes"
	"encoding/json"

	"github.com/openadmit/openadmit/pkg/utils/cmp"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

// parameter to create or update a stage.
//
// Config is the type-specific configuration object, kept raw here;
// its shape is selected by Type.
type StageSpec struct {
	Name                       string          `json:"name"`
	Type                       string          `json:"type"`
	Config                     json.RawMessage `json:"config"`
	IsRequired                 bool            `json:"is_required"`
	TimeoutDays                *int            `json:"timeout_days,omitempty"`
	NotifyProspectOnCompletion bool            `json:"notify_prospect_on_completion"`
	PublicVisible              bool            `json:"public_visible"`
}

func (s StageSpec) Equal(o StageSpec) bool {
	timeoutEq := (s.TimeoutDays == nil && o.TimeoutDays == nil) ||
		(s.TimeoutDays != nil && o.TimeoutDays != nil && *s.TimeoutDays == *o.TimeoutDays)

	return s.Name == o.Name &&
		s.Type == o.Type &&
		bytes.Equal(s.Config, o.Config) &&
		s.IsRequired == o.IsRequired &&
		timeoutEq &&
		s.NotifyProspectOnCompletion == o.NotifyProspectOnCompletion &&
		s.PublicVisible == o.PublicVisible
}

// parameter to create a pipeline with its initial stages.
type PipelineSpec struct {
	OrganizationId     string      `json:"organization_id"`
	Name               string      `json:"name"`
	DefaultTimeoutDays int         `json:"default_timeout_days"`
	Stages             []StageSpec `json:"stages,omitempty"`
}

// parameter to update a pipeline's own attributes. Stages have their
// own endpoints.
type PipelineUpdateSpec struct {
	Name               string `json:"name"`
	DefaultTimeoutDays int    `json:"default_timeout_days"`
}

// parameter to reorder stages. Must name every stage of the pipeline
// exactly once, in the new order.
type ReorderRequest struct {
	StageIds []string `json:"stage_ids"`
}

type StageDetail struct {
	Id                         string          `json:"id"`
	Name                       string          `json:"name"`
	Type                       string          `json:"type"`
	Config                     json.RawMessage `json:"config"`
	IsRequired                 bool            `json:"is_required"`
	TimeoutDays                *int            `json:"timeout_days,omitempty"`
	NotifyProspectOnCompletion bool            `json:"notify_prospect_on_completion"`
	PublicVisible              bool            `json:"public_visible"`
	SortOrder                  int             `json:"sort_order"`
}

func (s StageDetail) Equal(o StageDetail) bool {
	timeoutEq := (s.TimeoutDays == nil && o.TimeoutDays == nil) ||
		(s.TimeoutDays != nil && o.TimeoutDays != nil && *s.TimeoutDays == *o.TimeoutDays)

	return s.Id == o.Id &&
		s.Name == o.Name &&
		s.Type == o.Type &&
		bytes.Equal(s.Config, o.Config) &&
		s.IsRequired == o.IsRequired &&
		timeoutEq &&
		s.NotifyProspectOnCompletion == o.NotifyProspectOnCompletion &&
		s.PublicVisible == o.PublicVisible &&
		s.SortOrder == o.SortOrder
}

type Summary struct {
	Id                 string          `json:"id"`
	OrganizationId     string          `json:"organization_id"`
	Name               string          `json:"name"`
	DefaultTimeoutDays int             `json:"default_timeout_days"`
	CreatedAt          rfctime.RFC3339 `json:"created_at"`
	UpdatedAt          rfctime.RFC3339 `json:"updated_at"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.OrganizationId == o.OrganizationId &&
		s.Name == o.Name &&
		s.DefaultTimeoutDays == o.DefaultTimeoutDays &&
		s.CreatedAt.Equal(o.CreatedAt) &&
		s.UpdatedAt.Equal(o.UpdatedAt)
}

type Detail struct {
	Summary
	Stages []StageDetail `json:"stages"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		cmp.SliceContentEqWith(d.Stages, o.Stages, StageDetail.Equal)
}
