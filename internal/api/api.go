// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/chateval/internal/config"
	"github.com/JaimeStill/chateval/internal/infrastructure"
	"github.com/JaimeStill/chateval/pkg/middleware"
	"github.com/JaimeStill/chateval/pkg/module"
	"github.com/JaimeStill/chateval/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// The OpenAPI document is public; every other route runs behind authentication,
// session resolution, and request metrics.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	groups := routeGroups(domain, cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, groups)

	specBytes, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	protected := middleware.New()
	protected.Use(runtime.Auth.Middleware())
	protected.Use(middleware.Session(cfg.Session.Cookie()))
	if runtime.Metrics != nil {
		protected.Use(runtime.Metrics.Middleware())
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))
	root.Handle("/", protected.Apply(mux))

	m := module.New(cfg.API.BasePath, root)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
