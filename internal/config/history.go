package config

import (
	"fmt"
	"os"
	"strconv"
)

// History backends for durable session slots.
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendDatabase = "database"
	HistoryBackendStorage  = "storage"
)

const (
	EnvHistoryBackend        = "CHATEVAL_HISTORY_BACKEND"
	EnvHistoryCapacity       = "CHATEVAL_HISTORY_CAPACITY"
	EnvHistoryPromptCapacity = "CHATEVAL_HISTORY_PROMPT_CAPACITY"
)

// HistoryConfig selects where evaluation and prompt histories persist.
// A zero Capacity keeps every record.
type HistoryConfig struct {
	Backend        string `toml:"backend"`
	Capacity       int    `toml:"capacity"`
	PromptCapacity int    `toml:"prompt_capacity"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HistoryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *HistoryConfig) Merge(overlay *HistoryConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Capacity != 0 {
		c.Capacity = overlay.Capacity
	}
	if overlay.PromptCapacity != 0 {
		c.PromptCapacity = overlay.PromptCapacity
	}
}

func (c *HistoryConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = HistoryBackendDatabase
	}
	if c.PromptCapacity == 0 {
		c.PromptCapacity = 10
	}
}

func (c *HistoryConfig) loadEnv() {
	if v := os.Getenv(EnvHistoryBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvHistoryCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Capacity = n
		}
	}
	if v := os.Getenv(EnvHistoryPromptCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PromptCapacity = n
		}
	}
}

func (c *HistoryConfig) validate() error {
	switch c.Backend {
	case HistoryBackendMemory, HistoryBackendDatabase, HistoryBackendStorage:
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("invalid capacity: %d", c.Capacity)
	}
	if c.PromptCapacity < 1 {
		return fmt.Errorf("invalid prompt_capacity: %d", c.PromptCapacity)
	}
	return nil
}
