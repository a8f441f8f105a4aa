package internal

import (
	"context"

	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
)

// RecordActivity appends an audit entry. Call it inside the transaction
// of the mutation it describes, so the entry exists iff the mutation does.
func RecordActivity(ctx context.Context, conn xpool.Queryer, applicantId, actor, action, detail string) error {
	_, err := conn.Exec(
		ctx,
		`
		insert into "activity" ("applicant_id", "actor", "action", "detail")
		values ($1, $2, $3, $4)
		`,
		applicantId, actor, action, detail,
	)
	return err
}
