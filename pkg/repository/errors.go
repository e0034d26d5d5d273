package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated by MapError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Errors holds the domain sentinels a repository maps database failures onto.
// A nil field leaves the matching failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// MapError translates sql.ErrNoRows to NotFound, unique violations to
// Duplicate, and foreign key or check violations to Invalid. Invalid is
// wrapped with the violated constraint name. Other errors pass through.
func (e Errors) MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if e.Duplicate != nil {
			return e.Duplicate
		}
	case pgForeignKeyViolation, pgCheckViolation:
		if e.Invalid != nil {
			if pgErr.ConstraintName != "" {
				return fmt.Errorf("%w: %s", e.Invalid, pgErr.ConstraintName)
			}
			return e.Invalid
		}
	}

	return err
}
