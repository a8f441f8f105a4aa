package internal

import (
	"errors"

	"github.com/jackc/pgx/v4"
)

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
