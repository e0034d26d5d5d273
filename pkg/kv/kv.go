// Package kv provides durable single-value slots addressed by key.
// Session history and prompt edit history are persisted through it.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	BackendDatabase = "database"
	BackendStorage  = "storage"
	BackendMemory   = "memory"
)

var (
	ErrNotFound   = errors.New("kv entry not found")
	ErrInvalidKey = errors.New("invalid kv key")
)

// System stores opaque values by key.
type System interface {
	// Get returns the value stored at key. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored at key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key joins segments into a slash-separated key.
func Key(segments ...string) string {
	return strings.Join(segments, "/")
}

func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
