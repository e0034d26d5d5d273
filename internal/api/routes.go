package api

import (
	"net/http"

	"github.com/JaimeStill/chateval/internal/config"
	"github.com/JaimeStill/chateval/internal/history"
	"github.com/JaimeStill/chateval/pkg/openapi"
	"github.com/JaimeStill/chateval/pkg/routes"
)

func routeGroups(domain *Domain, cfg *config.Config, runtime *Runtime) []routes.Group {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	return []routes.Group{
		domain.Chat.Handler(maxUpload).Routes(),
		history.NewHandler(domain.Sessions, runtime.Logger, cfg.API.Pagination.MaxPageSize).Routes(),
		domain.Documents.Handler(maxUpload).Routes(),
		domain.Prompts.Handler().Routes(),
	}
}

func registerRoutes(mux *http.ServeMux, groups []routes.Group) {
	routes.Register(mux, groups...)
}

// buildSpec describes every documented route relative to the API base path.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	if cfg.Auth.Enabled {
		spec.EnableBearerAuth("OIDC ID token issued by " + cfg.Auth.Issuer)
	}

	routes.Describe(spec, groups...)

	return openapi.MarshalJSON(spec)
}
