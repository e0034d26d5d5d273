package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/chateval/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
	errInvalid   = errors.New("invalid")
)

func TestMapError(t *testing.T) {
	full := repository.Errors{NotFound: errNotFound, Duplicate: errDuplicate, Invalid: errInvalid}
	other := errors.New("connection reset")

	tests := []struct {
		name string
		errs repository.Errors
		err  error
		want error
	}{
		{"nil", full, nil, nil},
		{"no rows", full, sql.ErrNoRows, errNotFound},
		{"wrapped no rows", full, fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", full, &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", full, &pgconn.PgError{Code: "23503"}, errInvalid},
		{"check violation", full, &pgconn.PgError{Code: "23514", ConstraintName: "prompts_criterion_check"}, errInvalid},
		{"other", full, other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.errs.MapError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("MapError() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorConstraintName(t *testing.T) {
	errs := repository.Errors{Invalid: errInvalid}
	got := errs.MapError(&pgconn.PgError{Code: "23514", ConstraintName: "prompts_criterion_check"})

	if got.Error() != "invalid: prompts_criterion_check" {
		t.Errorf("MapError() = %q", got.Error())
	}
}

func TestMapErrorUnsetSentinelPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	got := repository.Errors{NotFound: errNotFound}.MapError(pgErr)

	var target *pgconn.PgError
	if !errors.As(got, &target) || target.Code != "23505" {
		t.Errorf("MapError() = %v, want original PgError", got)
	}
}
