package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/chateval/internal/config"
	"github.com/JaimeStill/chateval/internal/infrastructure"
	"github.com/JaimeStill/chateval/pkg/database"
	"github.com/JaimeStill/chateval/pkg/llm"
	"github.com/JaimeStill/chateval/pkg/metrics"
	"github.com/JaimeStill/chateval/pkg/openapi"
	"github.com/JaimeStill/chateval/pkg/pagination"
	"github.com/JaimeStill/chateval/pkg/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Database: database.Config{
			Host: "localhost", Port: 5432, Name: "chateval", User: "chateval",
			SSLMode: "disable", MaxOpenConns: 5, MaxIdleConns: 1,
			ConnMaxLifetime: "15m", ConnTimeout: "5s",
		},
		Storage: storage.Config{
			ContainerName:    "documents",
			ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;",
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "10MB",
			Pagination:    pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
			OpenAPI:       openapi.Config{Title: "Chat Evaluation API"},
		},
		Agent: config.AgentConfig{
			Config: llm.Config{Provider: llm.ProviderAnthropic, Model: llm.DefaultModel, Timeout: "60s"},
		},
		History: config.HistoryConfig{Backend: config.HistoryBackendMemory},
		Session: config.SessionConfig{CookieName: "chateval_session", MaxAge: "24h"},
		Metrics: metrics.Config{Path: "/metrics", Namespace: "chateval"},
		Version: "0.1.0",
	}
}

func TestRouterEndpoints(t *testing.T) {
	cfg := testConfig()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		t.Fatalf("NewModules() error = %v", err)
	}
	router := buildRouter(infra, cfg)
	modules.Mount(router)

	tests := []struct {
		path     string
		want     int
		contains string
	}{
		{"/healthz", http.StatusOK, `"ok"`},
		{"/readyz", http.StatusServiceUnavailable, `"not ready"`},
		{"/metrics", http.StatusOK, "go_goroutines"},
		{"/scalar", http.StatusOK, "/api/openapi.json"},
		{"/api/openapi.json", http.StatusOK, `"openapi"`},
		{"/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %s", tt.contains)
			}
		})
	}
}

func TestRouterWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Disabled = true

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}

	rec := httptest.NewRecorder()
	buildRouter(infra, cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
