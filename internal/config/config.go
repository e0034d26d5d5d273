package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/chateval/pkg/auth"
	"github.com/JaimeStill/chateval/pkg/database"
	"github.com/JaimeStill/chateval/pkg/metrics"
	"github.com/JaimeStill/chateval/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	BaseEnvFile          = ".env"
	OverlayEnvPattern    = ".env.%s"

	EnvChatevalEnv             = "CHATEVAL_ENV"
	EnvChatevalShutdownTimeout = "CHATEVAL_SHUTDOWN_TIMEOUT"
	EnvChatevalVersion         = "CHATEVAL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CHATEVAL_DB_HOST",
	Port:            "CHATEVAL_DB_PORT",
	Name:            "CHATEVAL_DB_NAME",
	User:            "CHATEVAL_DB_USER",
	Password:        "CHATEVAL_DB_PASSWORD",
	SSLMode:         "CHATEVAL_DB_SSL_MODE",
	ApplicationName: "CHATEVAL_DB_APPLICATION_NAME",
	MaxOpenConns:    "CHATEVAL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CHATEVAL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CHATEVAL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CHATEVAL_DB_CONN_TIMEOUT",
	AutoMigrate:     "CHATEVAL_DB_AUTO_MIGRATE",
}

var storageEnv = &storage.Env{
	ContainerName:    "CHATEVAL_STORAGE_CONTAINER_NAME",
	ConnectionString: "CHATEVAL_STORAGE_CONNECTION_STRING",
	KeyPrefix:        "CHATEVAL_STORAGE_KEY_PREFIX",
}

var authEnv = &auth.Env{
	Enabled:  "CHATEVAL_AUTH_ENABLED",
	Issuer:   "CHATEVAL_AUTH_ISSUER",
	ClientID: "CHATEVAL_AUTH_CLIENT_ID",
}

var metricsEnv = &metrics.Env{
	Disabled:  "CHATEVAL_METRICS_DISABLED",
	Path:      "CHATEVAL_METRICS_PATH",
	Namespace: "CHATEVAL_METRICS_NAMESPACE",
}

// Config is the root configuration for the chateval service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agent           AgentConfig     `toml:"agent"`
	History         HistoryConfig   `toml:"history"`
	Session         SessionConfig   `toml:"session"`
	Auth            auth.Config     `toml:"auth"`
	Metrics         metrics.Config  `toml:"metrics"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CHATEVAL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvChatevalEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env files into the environment, then the base config (if
// present), applies any environment overlay, and finalizes all values. If no
// config.toml exists, defaults and environment variables provide all
// configuration. Variables already set in the process win over .env files.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.History.Merge(&overlay.History)
	c.Session.Merge(&overlay.Session)
	c.Auth.Merge(&overlay.Auth)
	c.Metrics.Merge(&overlay.Metrics)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agent.Finalize(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.History.Finalize(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Session.Finalize(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Metrics.Finalize(metricsEnv); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvChatevalShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvChatevalVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// loadEnvFiles applies the environment-specific .env file before the base
// one so its values take precedence.
func loadEnvFiles() error {
	files := make([]string, 0, 2)
	if env := os.Getenv(EnvChatevalEnv); env != "" {
		files = append(files, fmt.Sprintf(OverlayEnvPattern, env))
	}
	files = append(files, BaseEnvFile)

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func overlayPath() string {
	if env := os.Getenv(EnvChatevalEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
