// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, session slots,
// provider clients, metrics, authentication) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/chateval/internal/config"
	"github.com/JaimeStill/chateval/internal/migrations"
	"github.com/JaimeStill/chateval/pkg/auth"
	"github.com/JaimeStill/chateval/pkg/database"
	"github.com/JaimeStill/chateval/pkg/kv"
	"github.com/JaimeStill/chateval/pkg/lifecycle"
	"github.com/JaimeStill/chateval/pkg/llm"
	"github.com/JaimeStill/chateval/pkg/metrics"
	"github.com/JaimeStill/chateval/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and provider access.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Slots     kv.System
	LLM       llm.Factory
	Auth      auth.System
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	dbHooks []database.ConnectHook
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := cfg.Logging.Logger(os.Stderr)
	lc := lifecycle.New(logger)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	slots, err := newSlots(&cfg.History, db, store, logger)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	var observer llm.Observer
	if !cfg.Metrics.Disabled {
		m = metrics.New(cfg.Metrics.Namespace)
		m.RegisterDB(db.Connection(), cfg.Database.Name)
		observer = m
	}

	var hooks []database.ConnectHook
	if cfg.Database.AutoMigrate {
		hooks = append(hooks, migrations.Up)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Slots:     slots,
		LLM:       llm.NewFactory(&cfg.Agent.Config, logger, observer),
		Auth:      auth.New(&cfg.Auth, logger),
		Metrics:   m,
		dbHooks:   hooks,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The database applies pending migrations on connect when auto_migrate is set.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle, i.dbHooks...); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Auth.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("auth start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup finished and every checked subsystem is ready.
func (i *Infrastructure) Ready() bool {
	if !i.Lifecycle.Ready() {
		return false
	}
	for _, c := range []lifecycle.ReadinessChecker{i.Database, i.Storage, i.Auth} {
		if !c.Ready() {
			return false
		}
	}
	return true
}

func newSlots(cfg *config.HistoryConfig, db database.System, store storage.System, logger *slog.Logger) (kv.System, error) {
	switch cfg.Backend {
	case config.HistoryBackendMemory:
		return kv.NewMemory(), nil
	case config.HistoryBackendDatabase:
		return kv.NewDatabase(db.Connection(), logger), nil
	case config.HistoryBackendStorage:
		return kv.NewStorage(store, logger), nil
	default:
		return nil, fmt.Errorf("unsupported history backend %q", cfg.Backend)
	}
}
