package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/chateval/pkg/middleware"
)

const (
	EnvSessionCookieName  = "CHATEVAL_SESSION_COOKIE_NAME"
	EnvSessionMaxAge      = "CHATEVAL_SESSION_MAX_AGE"
	EnvSessionSecure      = "CHATEVAL_SESSION_SECURE"
	EnvSessionMaxSessions = "CHATEVAL_SESSION_MAX_SESSIONS"
)

// SessionConfig controls the session cookie and how many sessions stay in memory.
type SessionConfig struct {
	CookieName  string `toml:"cookie_name"`
	MaxAge      string `toml:"max_age"`
	Secure      bool   `toml:"secure"`
	MaxSessions int    `toml:"max_sessions"`
}

// MaxAgeDuration returns MaxAge as a time.Duration.
func (c *SessionConfig) MaxAgeDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}

// Cookie returns the middleware settings for the session cookie.
func (c *SessionConfig) Cookie() middleware.SessionConfig {
	return middleware.SessionConfig{
		CookieName: c.CookieName,
		MaxAge:     c.MaxAgeDuration(),
		Secure:     c.Secure,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SessionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Secure always applies.
func (c *SessionConfig) Merge(overlay *SessionConfig) {
	c.Secure = overlay.Secure
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
	if overlay.MaxSessions != 0 {
		c.MaxSessions = overlay.MaxSessions
	}
}

func (c *SessionConfig) loadDefaults() {
	if c.CookieName == "" {
		c.CookieName = "chateval_session"
	}
	if c.MaxAge == "" {
		c.MaxAge = "168h"
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 100
	}
}

func (c *SessionConfig) loadEnv() {
	if v := os.Getenv(EnvSessionCookieName); v != "" {
		c.CookieName = v
	}
	if v := os.Getenv(EnvSessionMaxAge); v != "" {
		c.MaxAge = v
	}
	if v := os.Getenv(EnvSessionSecure); v != "" {
		if secure, err := strconv.ParseBool(v); err == nil {
			c.Secure = secure
		}
	}
	if v := os.Getenv(EnvSessionMaxSessions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSessions = n
		}
	}
}

func (c *SessionConfig) validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("cookie_name required")
	}
	if _, err := time.ParseDuration(c.MaxAge); err != nil {
		return fmt.Errorf("invalid max_age: %w", err)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("invalid max_sessions: %d", c.MaxSessions)
	}
	return nil
}
