package postgres

import (
	"context"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	actdb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	"github.com/openadmit/openadmit/pkg/domain"
)

type activityPG struct {
	pool xpool.Pool
}

var _ actdb.Interface = &activityPG{}

func New(pool xpool.Pool) *activityPG {
	return &activityPG{pool: pool}
}

func (m *activityPG) List(ctx context.Context, applicantId string, page domain.Page) ([]domain.ActivityEntry, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	page = page.Normalize()
	rows, err := conn.Query(
		ctx,
		`
		select "activity_id", "applicant_id", "actor", "action", "detail", "happened_at"
		from "activity"
		where "applicant_id" = $1
		order by "happened_at" desc, "activity_id" desc
		limit $2 offset $3
		`,
		applicantId, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ActivityEntry{}
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(
			&entry.Id, &entry.ApplicantId, &entry.Actor,
			&entry.Action, &entry.Detail, &entry.HappenedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *activityPG) Count(ctx context.Context, applicantId string) (int, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int
	if err := conn.QueryRow(
		ctx,
		`select count(*) from "activity" where "applicant_id" = $1`,
		applicantId,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
