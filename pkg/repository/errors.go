package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Errors maps storage failures onto a domain's sentinel errors.
// A nil field leaves the matching failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Reference error
	Invalid   error
}

// Map translates err into the configured sentinel. sql.ErrNoRows maps to
// NotFound, unique violations to Duplicate, foreign key violations to
// Reference, and check or not-null violations to Invalid. Anything else
// is returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return pick(e.NotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return pick(e.Duplicate, err)
	case pgForeignKeyViolation:
		return pick(e.Reference, err)
	case pgCheckViolation, pgNotNullViolation:
		return pick(e.Invalid, err)
	}
	return err
}

func pick(sentinel, err error) error {
	if sentinel == nil {
		return err
	}
	return sentinel
}
