package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openadmit/openadmit/pkg/utils/cmp"
)

// Core part of a pipeline: an organization's configured sequence of
// admission stages.
type PipelineBody struct {
	Id             string
	OrganizationId string
	Name           string

	// days an applicant may sit on a stage before going inactive,
	// unless the stage overrides it.
	DefaultTimeoutDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PipelineBody) Equal(o *PipelineBody) bool {
	if (p == nil) || (o == nil) {
		return (p == nil) && (o == nil)
	}
	return p.Id == o.Id &&
		p.OrganizationId == o.OrganizationId &&
		p.Name == o.Name &&
		p.DefaultTimeoutDays == o.DefaultTimeoutDays
}

type Pipeline struct {
	PipelineBody

	// stages ordered by SortOrder.
	//
	// SortOrder values are always the contiguous sequence 0..N-1;
	// reordering re-issues them.
	Stages []Stage
}

func (p *Pipeline) Equal(o *Pipeline) bool {
	if (p == nil) || (o == nil) {
		return (p == nil) && (o == nil)
	}
	return p.PipelineBody.Equal(&o.PipelineBody) &&
		cmp.SliceContentEqWith(
			p.Stages, o.Stages,
			func(a, b Stage) bool { return a.Equal(&b) },
		)
}

// FinalStage returns the last stage of the pipeline, by SortOrder.
func (p *Pipeline) FinalStage() (Stage, bool) {
	if len(p.Stages) == 0 {
		return Stage{}, false
	}
	last := p.Stages[0]
	for _, s := range p.Stages[1:] {
		if last.SortOrder < s.SortOrder {
			last = s
		}
	}
	return last, true
}

type StageType string

const (
	FormSubmission StageType = "form_submission"
	DocumentUpload StageType = "document_upload"
	ElectionVote   StageType = "election_vote"
	ManualApproval StageType = "manual_approval"
)

func (st StageType) String() string {
	return string(st)
}

func AsStageType(s string) (StageType, error) {
	switch s {
	case string(FormSubmission):
		return FormSubmission, nil
	case string(DocumentUpload):
		return DocumentUpload, nil
	case string(ElectionVote):
		return ElectionVote, nil
	case string(ManualApproval):
		return ManualApproval, nil
	default:
		return "", fmt.Errorf("'%s' is not StageType", s)
	}
}

// One step in a pipeline with a type-specific completion requirement.
type Stage struct {
	Id         string
	PipelineId string
	Name       string
	Type       StageType

	// shape determined by Type. Never nil for a persisted stage.
	Config StageConfig

	IsRequired bool

	// inactivity timeout override. nil = inherit the pipeline default.
	TimeoutDays *int

	NotifyProspectOnCompletion bool
	PublicVisible              bool

	// position within the pipeline, 0-based.
	SortOrder int
}

func (s *Stage) Equal(o *Stage) bool {
	if (s == nil) || (o == nil) {
		return (s == nil) && (o == nil)
	}

	timeoutEq := (s.TimeoutDays == nil && o.TimeoutDays == nil) ||
		(s.TimeoutDays != nil && o.TimeoutDays != nil && *s.TimeoutDays == *o.TimeoutDays)

	configEq := (s.Config == nil && o.Config == nil) ||
		(s.Config != nil && o.Config != nil && s.Config.Equal(o.Config))

	return s.Id == o.Id &&
		s.PipelineId == o.PipelineId &&
		s.Name == o.Name &&
		s.Type == o.Type &&
		configEq &&
		s.IsRequired == o.IsRequired &&
		timeoutEq &&
		s.NotifyProspectOnCompletion == o.NotifyProspectOnCompletion &&
		s.PublicVisible == o.PublicVisible &&
		s.SortOrder == o.SortOrder
}

// EffectiveTimeoutDays is the stage's override if present,
// else the pipeline default.
func (s *Stage) EffectiveTimeoutDays(p PipelineBody) int {
	if s.TimeoutDays != nil {
		return *s.TimeoutDays
	}
	return p.DefaultTimeoutDays
}

var (
	ErrInvalidStageConfig = errors.New("invalid stage configuration")

	// the pipeline still has applicants; it cannot be removed.
	ErrPipelineInUse = errors.New("pipeline is in use")

	// an applicant occupies the stage; it cannot be removed.
	ErrStageOccupied = errors.New("stage is occupied")

	// a reorder request named a stage set different from the pipeline's.
	ErrStageSetMismatch = errors.New("stage set mismatch")
)

func NewErrStageSetMismatch(pipelineId string) error {
	return fmt.Errorf("%w: pipeline %s", ErrStageSetMismatch, pipelineId)
}

// StageConfig is the tagged union over the four stage kinds.
//
// Validation rules belong to the variant, not to the stage.
type StageConfig interface {
	Type() StageType
	Validate() error
	Equal(StageConfig) bool
}

// completion = a linked form submission exists.
type FormStageConfig struct {
	FormId string `json:"form_id"`
}

func (FormStageConfig) Type() StageType { return FormSubmission }

func (c FormStageConfig) Validate() error {
	if c.FormId == "" {
		return fmt.Errorf("%w: form_id is required", ErrInvalidStageConfig)
	}
	return nil
}

func (c FormStageConfig) Equal(o StageConfig) bool {
	other, ok := o.(FormStageConfig)
	return ok && c == other
}

// completion = every required type has at least one uploaded document.
type DocumentStageConfig struct {
	RequiredDocumentTypes []string `json:"required_document_types"`
	AllowMultiple         bool     `json:"allow_multiple"`
}

func (DocumentStageConfig) Type() StageType { return DocumentUpload }

func (c DocumentStageConfig) Validate() error {
	if len(c.RequiredDocumentTypes) == 0 {
		return fmt.Errorf("%w: at least one required document type", ErrInvalidStageConfig)
	}
	for _, t := range c.RequiredDocumentTypes {
		if t == "" {
			return fmt.Errorf("%w: empty document type", ErrInvalidStageConfig)
		}
	}
	return nil
}

func (c DocumentStageConfig) Equal(o StageConfig) bool {
	other, ok := o.(DocumentStageConfig)
	return ok &&
		c.AllowMultiple == other.AllowMultiple &&
		cmp.SliceContentEq(c.RequiredDocumentTypes, other.RequiredDocumentTypes)
}

type VictoryCondition string

const (
	SimpleMajority VictoryCondition = "simple_majority"
	Supermajority  VictoryCondition = "supermajority"
	Unanimous      VictoryCondition = "unanimous"
)

func AsVictoryCondition(s string) (VictoryCondition, error) {
	switch s {
	case string(SimpleMajority):
		return SimpleMajority, nil
	case string(Supermajority):
		return Supermajority, nil
	case string(Unanimous):
		return Unanimous, nil
	default:
		return "", fmt.Errorf("'%s' is not VictoryCondition", s)
	}
}

// toggles deciding which applicant fields are snapshotted into
// an election package. Name is always included.
type PackageFields struct {
	IncludeEmail        bool   `json:"include_email"`
	IncludePhone        bool   `json:"include_phone"`
	IncludeAddress      bool   `json:"include_address"`
	IncludeDateOfBirth  bool   `json:"include_date_of_birth"`
	IncludeDocuments    bool   `json:"include_documents"`
	IncludeStageHistory bool   `json:"include_stage_history"`
	NotePrompt          string `json:"note_prompt,omitempty"`
}

// completion = the applicant's election package reached "elected".
type ElectionStageConfig struct {
	VotingMethod       string           `json:"voting_method"`
	VictoryCondition   VictoryCondition `json:"victory_condition"`
	VictoryPercentage  *int             `json:"victory_percentage,omitempty"`
	EligibleVoterRoles []string         `json:"eligible_voter_roles"`
	AnonymousVoting    bool             `json:"anonymous_voting"`
	PackageFields      PackageFields    `json:"package_fields"`
}

func (ElectionStageConfig) Type() StageType { return ElectionVote }

func (c ElectionStageConfig) Validate() error {
	if c.VotingMethod == "" {
		return fmt.Errorf("%w: voting_method is required", ErrInvalidStageConfig)
	}
	if _, err := AsVictoryCondition(string(c.VictoryCondition)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStageConfig, err)
	}
	if c.VictoryCondition == Supermajority {
		if c.VictoryPercentage == nil || *c.VictoryPercentage < 1 || 100 < *c.VictoryPercentage {
			return fmt.Errorf(
				"%w: supermajority needs victory_percentage in [1, 100]",
				ErrInvalidStageConfig,
			)
		}
	}
	if len(c.EligibleVoterRoles) == 0 {
		return fmt.Errorf("%w: at least one eligible voter role", ErrInvalidStageConfig)
	}
	return nil
}

func (c ElectionStageConfig) Equal(o StageConfig) bool {
	other, ok := o.(ElectionStageConfig)
	if !ok {
		return false
	}

	pctEq := (c.VictoryPercentage == nil && other.VictoryPercentage == nil) ||
		(c.VictoryPercentage != nil && other.VictoryPercentage != nil &&
			*c.VictoryPercentage == *other.VictoryPercentage)

	return c.VotingMethod == other.VotingMethod &&
		c.VictoryCondition == other.VictoryCondition &&
		pctEq &&
		cmp.SliceContentEq(c.EligibleVoterRoles, other.EligibleVoterRoles) &&
		c.AnonymousVoting == other.AnonymousVoting &&
		c.PackageFields == other.PackageFields
}

// completion = an approval recorded by a user holding one of ApproverRoles,
// with notes when RequireNotes.
type ManualApprovalConfig struct {
	ApproverRoles []string `json:"approver_roles"`
	RequireNotes  bool     `json:"require_notes"`
}

func (ManualApprovalConfig) Type() StageType { return ManualApproval }

func (c ManualApprovalConfig) Validate() error {
	if len(c.ApproverRoles) == 0 {
		return fmt.Errorf("%w: at least one approver role", ErrInvalidStageConfig)
	}
	return nil
}

func (c ManualApprovalConfig) Equal(o StageConfig) bool {
	other, ok := o.(ManualApprovalConfig)
	return ok &&
		c.RequireNotes == other.RequireNotes &&
		cmp.SliceContentEq(c.ApproverRoles, other.ApproverRoles)
}

// MarshalStageConfig encodes a config variant for storage.
// The discriminator is the stage's Type column, not part of the payload.
func MarshalStageConfig(c StageConfig) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no config", ErrInvalidStageConfig)
	}
	return json.Marshal(c)
}

// UnmarshalStageConfig decodes the variant selected by stageType.
func UnmarshalStageConfig(stageType StageType, raw []byte) (StageConfig, error) {
	switch stageType {
	case FormSubmission:
		c := FormStageConfig{}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case DocumentUpload:
		c := DocumentStageConfig{}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ElectionVote:
		c := ElectionStageConfig{}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ManualApproval:
		c := ManualApprovalConfig{}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("'%s' is not StageType", stageType)
	}
}

// parameter to create or update a stage.
type StageSpec struct {
	Name                       string
	Type                       StageType
	Config                     StageConfig
	IsRequired                 bool
	TimeoutDays                *int
	NotifyProspectOnCompletion bool
	PublicVisible              bool
}

func (s StageSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: stage name is required", ErrInvalidStageConfig)
	}
	if s.Config == nil {
		return fmt.Errorf("%w: no config", ErrInvalidStageConfig)
	}
	if s.Config.Type() != s.Type {
		return fmt.Errorf(
			"%w: config is for %s, stage is %s",
			ErrInvalidStageConfig, s.Config.Type(), s.Type,
		)
	}
	if s.TimeoutDays != nil && *s.TimeoutDays < 1 {
		return fmt.Errorf("%w: timeout override must be positive", ErrInvalidStageConfig)
	}
	return s.Config.Validate()
}

// parameter to create a pipeline.
type PipelineSpec struct {
	OrganizationId     string
	Name               string
	DefaultTimeoutDays int

	// initial stages, in order.
	Stages []StageSpec
}

func (p PipelineSpec) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: pipeline name is required", ErrInvalidStageConfig)
	}
	if p.DefaultTimeoutDays < 1 {
		return fmt.Errorf("%w: default timeout must be positive", ErrInvalidStageConfig)
	}
	for _, s := range p.Stages {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
