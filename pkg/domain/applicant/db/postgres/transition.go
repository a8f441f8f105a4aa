package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgtype"
	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/errors/dberrors"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

// noteTarget tells changeStatus where the transition's free-text note
// is stored. The activity log records it in every case.
type noteTarget int

const (
	noteToActivityOnly noteTarget = iota

	// the open stage-history entry (hold, reject)
	noteToOpenHistory

	// the applicant's own notes field (reactivate)
	noteToApplicant
)

func (m *applicantPG) Hold(ctx context.Context, applicantId string, actor string, notes string) error {
	return m.changeStatus(
		ctx, applicantId, domain.OnHold, actor, "held", notes, noteToOpenHistory,
		`update "applicant" set "status" = 'on_hold', "updated_at" = now()
		where "applicant_id" = $1`,
	)
}

func (m *applicantPG) Resume(ctx context.Context, applicantId string, actor string, notes string) error {
	return m.changeStatus(
		ctx, applicantId, domain.Active, actor, "resumed", notes, noteToActivityOnly,
		`update "applicant" set "status" = 'active', "updated_at" = now()
		where "applicant_id" = $1`,
	)
}

func (m *applicantPG) Reject(ctx context.Context, applicantId string, actor string, notes string) error {
	return m.changeStatus(
		ctx, applicantId, domain.Rejected, actor, "rejected", notes, noteToOpenHistory,
		`update "applicant" set "status" = 'rejected', "updated_at" = now()
		where "applicant_id" = $1`,
	)
}

func (m *applicantPG) Withdraw(ctx context.Context, applicantId string, actor string, reason string) error {
	// the reason lands in withdrawal_reason via the update itself.
	return m.changeStatus(
		ctx, applicantId, domain.Withdrawn, actor, "withdrawn", reason, noteToActivityOnly,
		`update "applicant" set
			"status" = 'withdrawn',
			"withdrawn_at" = now(),
			"withdrawal_reason" = $2,
			"updated_at" = now()
		where "applicant_id" = $1`,
		reason,
	)
}

func (m *applicantPG) Reactivate(ctx context.Context, applicantId string, actor string, notes string) error {
	// stage_entered_at restarts so the timeout clock does not count the
	// time spent inactive.
	return m.changeStatus(
		ctx, applicantId, domain.Active, actor, "reactivated", notes, noteToApplicant,
		`update "applicant" set
			"status" = 'active',
			"reactivated_at" = now(),
			"stage_entered_at" = now(),
			"escalated_at" = null,
			"updated_at" = now()
		where "applicant_id" = $1`,
	)
}

// changeStatus moves the applicant's status under its row lock,
// guarded by the status state machine, and writes the audit entry.
// A non-empty note is stored where noteTo points, in the same
// transaction.
//
// updateQuery takes the applicant id as $1; extraArgs follow from $2.
func (m *applicantPG) changeStatus(
	ctx context.Context,
	applicantId string, to domain.ApplicantStatus,
	actor string, action string, detail string, noteTo noteTarget,
	updateQuery string, extraArgs ...interface{},
) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := lockApplicant(ctx, tx, applicantId)
	if err != nil {
		return err
	}
	if !locked.Status.CanTransit(to) {
		return domain.NewErrInvalidStatusChanging(locked.Status, to)
	}

	args := append([]interface{}{applicantId}, extraArgs...)
	if _, err := tx.Exec(ctx, updateQuery, args...); err != nil {
		return err
	}

	if detail != "" {
		switch noteTo {
		case noteToOpenHistory:
			if _, err := tx.Exec(
				ctx,
				`update "stage_history" set "notes" = $2
				where "applicant_id" = $1 and "completed_at" is null`,
				applicantId, detail,
			); err != nil {
				return err
			}
		case noteToApplicant:
			if _, err := tx.Exec(
				ctx,
				`update "applicant" set "notes" = $2
				where "applicant_id" = $1`,
				applicantId, detail,
			); err != nil {
				return err
			}
		}
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, action, detail,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (m *applicantPG) Advance(ctx context.Context, applicantId string, actor string, notes string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := lockApplicant(ctx, tx, applicantId)
	if err != nil {
		return err
	}
	if locked.Status != domain.Active {
		return fmt.Errorf(
			"%w: advancing needs active, applicant is %s",
			domain.ErrInvalidStatusChanging, locked.Status,
		)
	}

	stages, err := internal.GetStages(ctx, tx, []string{locked.PipelineId})
	if err != nil {
		return err
	}

	current, found := slices.First(stages[locked.PipelineId], func(s domain.Stage) bool {
		return s.Id == locked.CurrentStageId
	})
	if !found {
		return dberrors.Missing{Table: "stage", Identity: locked.CurrentStageId}
	}

	if current.IsRequired {
		if err := stageSatisfied(ctx, tx, applicantId, current); err != nil {
			return err
		}
	}

	next, found := slices.First(stages[locked.PipelineId], func(s domain.Stage) bool {
		return s.SortOrder == current.SortOrder+1
	})
	if !found {
		return fmt.Errorf("%w: stage %s", domain.ErrFinalStage, current.Name)
	}

	if err := closeHistory(ctx, tx, applicantId, actor, notes); err != nil {
		return err
	}
	if err := openHistory(ctx, tx, applicantId, next.Id, next.Name); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "applicant" set
			"current_stage_id" = $2,
			"stage_entered_at" = now(),
			"escalated_at" = null,
			"updated_at" = now()
		where "applicant_id" = $1
		`,
		applicantId, next.Id,
	); err != nil {
		return err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, "advanced",
		fmt.Sprintf("%s -> %s", current.Name, next.Name),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func closeHistory(ctx context.Context, conn xpool.Queryer, applicantId, actor, notes string) error {
	_, err := conn.Exec(
		ctx,
		`
		update "stage_history" set
			"completed_at" = now(), "completed_by" = $2, "notes" = $3
		where "applicant_id" = $1 and "completed_at" is null
		`,
		applicantId, actor, notes,
	)
	return err
}

// stageSatisfied checks the stage's type-specific completion requirement.
// nil means satisfied; otherwise the error wraps domain.ErrStageIncomplete.
func stageSatisfied(ctx context.Context, conn xpool.Queryer, applicantId string, stage domain.Stage) error {
	switch config := stage.Config.(type) {
	case domain.FormStageConfig:
		var done bool
		if err := conn.QueryRow(
			ctx,
			`
			select exists (
				select 1 from "form_submission"
				where "applicant_id" = $1 and "form_id" = $2
			)
			`,
			applicantId, config.FormId,
		).Scan(&done); err != nil {
			return err
		}
		if !done {
			return fmt.Errorf(
				"%w: form %s is not submitted", domain.ErrStageIncomplete, config.FormId,
			)
		}
		return nil

	case domain.DocumentStageConfig:
		var uploaded pgtype.TextArray
		if err := conn.QueryRow(
			ctx,
			`
			select coalesce(array_agg(distinct "document_type"), '{}')
			from "document"
			where "applicant_id" = $1 and "stage_id" = $2
			`,
			applicantId, stage.Id,
		).Scan(&uploaded); err != nil {
			return err
		}

		var uploadedTypes []string
		if err := uploaded.AssignTo(&uploadedTypes); err != nil {
			return err
		}

		covered := map[string]bool{}
		for _, t := range uploadedTypes {
			covered[t] = true
		}
		for _, required := range config.RequiredDocumentTypes {
			if !covered[required] {
				return fmt.Errorf(
					"%w: document type %s is not uploaded",
					domain.ErrStageIncomplete, required,
				)
			}
		}
		return nil

	case domain.ElectionStageConfig:
		var elected bool
		if err := conn.QueryRow(
			ctx,
			`
			select exists (
				select 1 from "election_package"
				where "applicant_id" = $1 and "stage_id" = $2 and "status" = 'elected'
			)
			`,
			applicantId, stage.Id,
		).Scan(&elected); err != nil {
			return err
		}
		if !elected {
			return fmt.Errorf(
				"%w: the applicant is not elected", domain.ErrStageIncomplete,
			)
		}
		return nil

	case domain.ManualApprovalConfig:
		var approved bool
		if err := conn.QueryRow(
			ctx,
			`
			select exists (
				select 1 from "approval"
				where "applicant_id" = $1 and "stage_id" = $2
			)
			`,
			applicantId, stage.Id,
		).Scan(&approved); err != nil {
			return err
		}
		if !approved {
			return fmt.Errorf(
				"%w: no approval is recorded", domain.ErrStageIncomplete,
			)
		}
		return nil

	default:
		return fmt.Errorf(
			"%w: stage %s has unknown config", domain.ErrInvalidStageConfig, stage.Id,
		)
	}
}

func (m *applicantPG) Convert(
	ctx context.Context,
	applicantId string,
	actor string,
	provision func(domain.Applicant) (domain.ConversionResult, error),
) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := lockApplicant(ctx, tx, applicantId)
	if err != nil {
		return err
	}
	if locked.Status != domain.Active {
		return fmt.Errorf(
			"%w: converting needs active, applicant is %s",
			domain.ErrInvalidStatusChanging, locked.Status,
		)
	}

	pipelines, err := internal.GetPipeline(ctx, tx, []string{locked.PipelineId})
	if err != nil {
		return err
	}
	pipeline, ok := pipelines[locked.PipelineId]
	if !ok {
		return dberrors.Missing{Table: "pipeline", Identity: locked.PipelineId}
	}

	final, ok := pipeline.FinalStage()
	if !ok || final.Id != locked.CurrentStageId {
		return fmt.Errorf(
			"%w: conversion needs the final stage", domain.ErrStageIncomplete,
		)
	}
	if final.IsRequired {
		if err := stageSatisfied(ctx, tx, applicantId, final); err != nil {
			return err
		}
	}

	applicants, err := internal.GetApplicant(ctx, tx, []string{applicantId})
	if err != nil {
		return err
	}

	// the row lock is held across the external call, so a concurrent
	// conversion of the same applicant waits and then fails the status
	// check instead of provisioning twice.
	result, err := provision(applicants[applicantId])
	if err != nil {
		return err
	}

	if err := closeHistory(ctx, tx, applicantId, actor, ""); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "applicant" set
			"status" = 'converted',
			"member_id" = $2,
			"membership_number" = $3,
			"updated_at" = now()
		where "applicant_id" = $1
		`,
		applicantId, result.MemberId, result.MembershipNumber,
	); err != nil {
		return err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, actor, "converted",
		fmt.Sprintf("member %s (%s)", result.MemberId, result.MembershipNumber),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
