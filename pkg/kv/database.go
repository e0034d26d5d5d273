package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/chateval/pkg/repository"
)

type database struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDatabase creates a store backed by the kv_entries table.
func NewDatabase(db *sql.DB, logger *slog.Logger) System {
	return &database{
		db:     db,
		logger: logger.With("system", "kv", "backend", BackendDatabase),
	}
}

func (d *database) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	q := "SELECT value FROM kv_entries WHERE key = $1"
	value, err := repository.QueryOne(ctx, d.db, q, []any{key}, scanValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (d *database) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	q := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()`

	_, err := repository.WithTx(ctx, d.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, key, value)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	d.logger.Debug("entry stored", "key", key, "bytes", len(value))
	return nil
}

func (d *database) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := d.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = $1", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func scanValue(s repository.Scanner) ([]byte, error) {
	var v []byte
	err := s.Scan(&v)
	return v, err
}
