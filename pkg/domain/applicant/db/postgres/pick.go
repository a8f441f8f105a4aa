package postgres

import (
	"context"

	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

// PickAndDeactivate picks one applicant which used up its stage timeout
// and transitions it to inactive.
func (m *applicantPG) PickAndDeactivate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return cursor, false, err
	}
	defer tx.Rollback(ctx)

	var applicantId string
	if err := tx.QueryRow(
		ctx,
		`
		with
		"candidate" as (
			select "applicant"."applicant_id" as "applicant_id"
			from "applicant"
			inner join "stage"
				on "stage"."stage_id" = "applicant"."current_stage_id"
			inner join "pipeline"
				on "pipeline"."pipeline_id" = "applicant"."pipeline_id"
			where
				"applicant"."status" = any($1::"applicantStatus"[])
				and "applicant"."updated_at" + make_interval(secs => $2) < now()
				and "applicant"."stage_entered_at" + make_interval(
					days => coalesce("stage"."timeout_days", "pipeline"."default_timeout_days")
				) <= now()
		),
		"target" as (
			select "applicant_id" from "applicant"
			where "applicant_id" in (table "candidate")
			order by "applicant_id" <= $3, "applicant_id"
			limit 1
			for no key update skip locked
		)
		select "applicant_id" from "target"
		`,
		slices.Map(cursor.Status, domain.ApplicantStatus.String),
		cursor.Debounce.Seconds(),
		cursor.Head,
	).Scan(&applicantId); err != nil {
		if internal.IsNoRows(err) {
			return cursor, false, nil
		}
		return cursor, false, err
	}

	// cursor is moved!
	cursor.Head = applicantId

	if _, err := tx.Exec(
		ctx,
		`
		update "applicant" set
			"status" = 'inactive',
			"deactivated_at" = now(),
			"updated_at" = now()
		where "applicant_id" = $1
		`,
		applicantId,
	); err != nil {
		return cursor, false, err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "deactivated",
		"stage timeout exceeded",
	); err != nil {
		return cursor, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return cursor, false, err
	}
	return cursor, true, nil
}

// PickAndEscalate picks one applicant in the critical alert window which
// is not yet escalated, and stamps escalated_at.
func (m *applicantPG) PickAndEscalate(ctx context.Context, cursor domain.ApplicantCursor) (domain.ApplicantCursor, bool, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return cursor, false, err
	}
	defer tx.Rollback(ctx)

	var applicantId string
	if err := tx.QueryRow(
		ctx,
		`
		with
		"tracked" as (
			select
				"applicant"."applicant_id" as "applicant_id",
				"applicant"."stage_entered_at" as "entered",
				make_interval(
					days => coalesce("stage"."timeout_days", "pipeline"."default_timeout_days")
				) as "timeout"
			from "applicant"
			inner join "stage"
				on "stage"."stage_id" = "applicant"."current_stage_id"
			inner join "pipeline"
				on "pipeline"."pipeline_id" = "applicant"."pipeline_id"
			where
				"applicant"."status" = any($1::"applicantStatus"[])
				and "applicant"."escalated_at" is null
				and "applicant"."updated_at" + make_interval(secs => $2) < now()
		),
		"candidate" as (
			select "applicant_id" from "tracked"
			where
				"entered" + "timeout" * $4 <= now()
				or "entered" + "timeout" - make_interval(days => $5) <= now()
		),
		"target" as (
			select "applicant_id" from "applicant"
			where "applicant_id" in (table "candidate")
			order by "applicant_id" <= $3, "applicant_id"
			limit 1
			for no key update skip locked
		)
		select "applicant_id" from "target"
		`,
		slices.Map(cursor.Status, domain.ApplicantStatus.String),
		cursor.Debounce.Seconds(),
		cursor.Head,
		domain.CriticalFraction,
		domain.CriticalRemainingDays,
	).Scan(&applicantId); err != nil {
		if internal.IsNoRows(err) {
			return cursor, false, nil
		}
		return cursor, false, err
	}

	// cursor is moved!
	cursor.Head = applicantId

	if _, err := tx.Exec(
		ctx,
		`
		update "applicant" set
			"escalated_at" = now(),
			"updated_at" = now()
		where "applicant_id" = $1
		`,
		applicantId,
	); err != nil {
		return cursor, false, err
	}

	if err := internal.RecordActivity(
		ctx, tx, applicantId, domain.SystemActor, "escalated",
		"stage deadline is imminent",
	); err != nil {
		return cursor, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return cursor, false, err
	}
	return cursor, true, nil
}
