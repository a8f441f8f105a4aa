package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	xpool "github.com/openadmit/openadmit/pkg/conn/db/postgres/pool"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/domain/internal/db/postgres"
)

// fakeRow replays fixed column values into Scan targets.
type fakeRow struct {
	values []interface{}
}

var _ pgx.Row = fakeRow{}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *internal.ApplicantStatus:
			*p = internal.ApplicantStatus(r.values[i].(domain.ApplicantStatus))
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type execCall struct {
	sql  string
	args []interface{}
}

// fakeTx records every Exec and answers QueryRow with the locked
// applicant row.
type fakeTx struct {
	lock      fakeRow
	execs     []execCall
	committed bool
}

var _ xpool.Tx = &fakeTx{}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, execCall{sql: sql, args: args})
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	panic(errors.New("it should not be called"))
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return tx.lock
}

func (tx *fakeTx) Begin(ctx context.Context) (xpool.Tx, error) {
	panic(errors.New("it should not be called"))
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	return nil
}

type fakePool struct {
	tx *fakeTx
}

var _ xpool.Pool = &fakePool{}

func (p *fakePool) Begin(ctx context.Context) (xpool.Tx, error) {
	return p.tx, nil
}

func (p *fakePool) Acquire(ctx context.Context) (xpool.Conn, error) {
	panic(errors.New("it should not be called"))
}

func (p *fakePool) Ping(ctx context.Context) error {
	return nil
}

func lockedRow(status domain.ApplicantStatus) fakeRow {
	return fakeRow{values: []interface{}{
		"applicant-1", "pipeline-1", status, "stage-1",
	}}
}

func findExec(execs []execCall, fragment string) (execCall, bool) {
	for _, e := range execs {
		if strings.Contains(e.sql, fragment) {
			return e, true
		}
	}
	return execCall{}, false
}

func TestTransitionNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("when hold carries a note, it lands on the open stage-history entry", func(t *testing.T) {
		tx := &fakeTx{lock: lockedRow(domain.Active)}
		testee := New(&fakePool{tx: tx})

		if err := testee.Hold(ctx, "applicant-1", "coordinator", "pausing for the summer"); err != nil {
			t.Fatal(err)
		}

		noted, found := findExec(tx.execs, `"stage_history"`)
		if !found {
			t.Fatal("the open stage-history entry should take the note")
		}
		if !strings.Contains(noted.sql, `"completed_at" is null`) {
			t.Errorf("the note should go to the open entry only: %s", noted.sql)
		}
		if len(noted.args) != 2 || noted.args[0] != "applicant-1" ||
			noted.args[1] != "pausing for the summer" {
			t.Errorf("unexpected note args: %+v", noted.args)
		}
		if !tx.committed {
			t.Error("the transaction should be committed")
		}
	})

	t.Run("when reject carries a note, it lands on the open stage-history entry", func(t *testing.T) {
		tx := &fakeTx{lock: lockedRow(domain.OnHold)}
		testee := New(&fakePool{tx: tx})

		if err := testee.Reject(ctx, "applicant-1", "coordinator", "did not attend"); err != nil {
			t.Fatal(err)
		}

		noted, found := findExec(tx.execs, `"stage_history"`)
		if !found {
			t.Fatal("the open stage-history entry should take the note")
		}
		if len(noted.args) != 2 || noted.args[1] != "did not attend" {
			t.Errorf("unexpected note args: %+v", noted.args)
		}
	})

	t.Run("when the note is empty, stage history is left untouched", func(t *testing.T) {
		tx := &fakeTx{lock: lockedRow(domain.Active)}
		testee := New(&fakePool{tx: tx})

		if err := testee.Hold(ctx, "applicant-1", "coordinator", ""); err != nil {
			t.Fatal(err)
		}

		if _, found := findExec(tx.execs, `"stage_history"`); found {
			t.Error("no note should be written")
		}
	})

	t.Run("when reactivate carries a note, it lands on the applicant", func(t *testing.T) {
		tx := &fakeTx{lock: lockedRow(domain.Inactive)}
		testee := New(&fakePool{tx: tx})

		if err := testee.Reactivate(ctx, "applicant-1", "coordinator", "reached by phone"); err != nil {
			t.Fatal(err)
		}

		noted, found := findExec(tx.execs, `update "applicant" set "notes"`)
		if !found {
			t.Fatal("the applicant should take the note")
		}
		if len(noted.args) != 2 || noted.args[0] != "applicant-1" ||
			noted.args[1] != "reached by phone" {
			t.Errorf("unexpected note args: %+v", noted.args)
		}
		if _, found := findExec(tx.execs, `"stage_history"`); found {
			t.Error("stage history should be left untouched")
		}
	})

	t.Run("when resume carries a note, it is recorded in activity only", func(t *testing.T) {
		tx := &fakeTx{lock: lockedRow(domain.OnHold)}
		testee := New(&fakePool{tx: tx})

		if err := testee.Resume(ctx, "applicant-1", "coordinator", "back from vacation"); err != nil {
			t.Fatal(err)
		}

		if _, found := findExec(tx.execs, `"stage_history"`); found {
			t.Error("stage history should be left untouched")
		}
		if _, found := findExec(tx.execs, `update "applicant" set "notes"`); found {
			t.Error("the applicant notes should be left untouched")
		}

		audit, found := findExec(tx.execs, `"activity"`)
		if !found {
			t.Fatal("the activity log should record the transition")
		}
		if len(audit.args) != 4 || audit.args[3] != "back from vacation" {
			t.Errorf("unexpected activity args: %+v", audit.args)
		}
	})
}
