package api

import (
	"github.com/JaimeStill/chateval/internal/config"
	"github.com/JaimeStill/chateval/internal/infrastructure"
	"github.com/JaimeStill/chateval/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Agent      config.AgentConfig
	History    config.HistoryConfig
	Session    config.SessionConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Agent:          cfg.Agent,
		History:        cfg.History,
		Session:        cfg.Session,
	}
}
