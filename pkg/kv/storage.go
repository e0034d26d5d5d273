package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/chateval/pkg/storage"
)

const blobPrefix = "kv/"

type blobStore struct {
	store  storage.System
	logger *slog.Logger
}

// NewStorage creates a store that keeps each key as one JSON blob.
func NewStorage(store storage.System, logger *slog.Logger) System {
	return &blobStore{
		store:  store,
		logger: logger.With("system", "kv", "backend", BackendStorage),
	}
}

func (b *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	rc, err := b.store.Download(ctx, blobKey(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer rc.Close()

	value, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (b *blobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := b.store.Upload(ctx, blobKey(key), bytes.NewReader(value), "application/json"); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	b.logger.Debug("entry stored", "key", key, "bytes", len(value))
	return nil
}

func (b *blobStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := b.store.Delete(ctx, blobKey(key))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func blobKey(key string) string {
	return blobPrefix + key + ".json"
}
