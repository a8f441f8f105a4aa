package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/openadmit/openadmit/pkg/domain"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domain.ErrMissing
}

// requested record is found too much.
type TooMuch struct {
	Table    string
	Identity string
	Expected int
}

var _ error = TooMuch{}

func (t TooMuch) Error() string {
	return fmt.Sprintf(
		"%s is found in %s more than %d times",
		t.Identity, t.Table, t.Expected,
	)
}

func (t TooMuch) Unwrap() error {
	return domain.ErrTooMuch
}

// ErrConflict marks unique-key violations, i.e. a write raced a
// conflicting one.
var ErrConflict = errors.New("conflicting record exists")

// AsConflict converts a postgres unique-violation into ErrConflict,
// passing other errors through.
func AsConflict(err error) error {
	if err == nil {
		return nil
	}
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
		if pgerr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrConflict, pgerr.ConstraintName)
		}
	}
	return err
}
