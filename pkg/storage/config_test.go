package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/chateval/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "conn"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.ContainerName != "documents" {
		t.Errorf("container_name = %s, want documents", cfg.ContainerName)
	}
	if cfg.KeyPrefix != "" {
		t.Errorf("key_prefix = %q, want empty", cfg.KeyPrefix)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_PREFIX", "staging")

	cfg := storage.Config{ContainerName: "documents"}
	err := cfg.Finalize(&storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		KeyPrefix:        "TEST_PREFIX",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name = %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string = %s, want override-connection", cfg.ConnectionString)
	}
	if cfg.KeyPrefix != "staging" {
		t.Errorf("key_prefix = %s, want staging", cfg.KeyPrefix)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"missing connection string", storage.Config{}, "connection_string required"},
		{"absolute prefix", storage.Config{ConnectionString: "c", KeyPrefix: "/root"}, "invalid key_prefix"},
		{"traversal prefix", storage.Config{ConnectionString: "c", KeyPrefix: "a/../b"}, "invalid key_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "documents", ConnectionString: "base"}
	base.Merge(&storage.Config{ConnectionString: "overlay", KeyPrefix: "tenant-a"})

	if base.ContainerName != "documents" {
		t.Errorf("container_name = %s, want documents", base.ContainerName)
	}
	if base.ConnectionString != "overlay" {
		t.Errorf("connection_string = %s, want overlay", base.ConnectionString)
	}
	if base.KeyPrefix != "tenant-a" {
		t.Errorf("key_prefix = %s, want tenant-a", base.KeyPrefix)
	}
}
