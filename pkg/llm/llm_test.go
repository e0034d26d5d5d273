package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/chateval/pkg/llm"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (r *recordingObserver) ObserveCompletion(provider, model string, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.errs = append(r.errs, err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func anthropicServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("path = %s, want suffix /v1/messages", r.URL.Path)
		}
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFactoryMissingKey(t *testing.T) {
	tests := []struct {
		name string
		cfg  llm.Config
	}{
		{"anthropic without key", llm.Config{Provider: llm.ProviderAnthropic, Model: "m"}},
		{"openai without key or base url", llm.Config{Provider: llm.ProviderOpenAI, Model: "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := llm.NewFactory(&tt.cfg, discardLogger(), nil)
			_, err := f.Client("")
			if !errors.Is(err, llm.ErrMissingKey) {
				t.Errorf("Client() error = %v, want ErrMissingKey", err)
			}
		})
	}
}

func TestFactoryServerKeyFallback(t *testing.T) {
	cfg := llm.Config{Provider: llm.ProviderAnthropic, Model: "m", APIKey: "server-key"}
	f := llm.NewFactory(&cfg, discardLogger(), nil)

	if _, err := f.Client(""); err != nil {
		t.Fatalf("Client() error = %v, want nil", err)
	}
	if f.Provider() != llm.ProviderAnthropic {
		t.Errorf("Provider() = %s, want %s", f.Provider(), llm.ProviderAnthropic)
	}
}

func TestAnthropicComplete(t *testing.T) {
	body := `{
		"id":"msg_1","type":"message","role":"assistant","model":"claude-3-haiku-20240307",
		"stop_reason":"end_turn","stop_sequence":"",
		"usage":{"input_tokens":7,"output_tokens":3},
		"content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}]
	}`

	var seen map[string]any
	srv := anthropicServer(t, http.StatusOK, body, &seen)

	obs := &recordingObserver{}
	cfg := llm.Config{Provider: llm.ProviderAnthropic, Model: llm.DefaultModel, BaseURL: srv.URL}
	f := llm.NewFactory(&cfg, discardLogger(), obs)

	client, err := f.Client("user-key")
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{Prompt: "question", MaxTokens: 1000})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.Text != "Hello there" {
		t.Errorf("Text = %q, want %q", resp.Text, "Hello there")
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 3 {
		t.Errorf("usage = %d/%d, want 7/3", resp.InputTokens, resp.OutputTokens)
	}
	if got := seen["max_tokens"]; got != float64(1000) {
		t.Errorf("max_tokens = %v, want 1000", got)
	}
	if got := seen["model"]; got != llm.DefaultModel {
		t.Errorf("model = %v, want %s", got, llm.DefaultModel)
	}
	if obs.calls != 1 || obs.errs[0] != nil {
		t.Errorf("observer calls = %d errs = %v, want 1 successful call", obs.calls, obs.errs)
	}
}

func TestAnthropicUnauthorized(t *testing.T) {
	body := `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`
	srv := anthropicServer(t, http.StatusUnauthorized, body, nil)

	obs := &recordingObserver{}
	cfg := llm.Config{Provider: llm.ProviderAnthropic, Model: llm.DefaultModel, BaseURL: srv.URL}
	client, err := llm.NewFactory(&cfg, discardLogger(), obs).Client("bad-key")
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}

	err = llm.Validate(context.Background(), client)
	if !errors.Is(err, llm.ErrUnauthorized) {
		t.Fatalf("Validate() error = %v, want ErrUnauthorized", err)
	}
	if status := llm.MapHTTPStatus(err); status != http.StatusUnauthorized {
		t.Errorf("MapHTTPStatus = %d, want %d", status, http.StatusUnauthorized)
	}
	if obs.calls != 1 || !errors.Is(obs.errs[0], llm.ErrUnauthorized) {
		t.Errorf("observer errs = %v, want ErrUnauthorized", obs.errs)
	}
}

func TestOpenAIComplete(t *testing.T) {
	body := `{
		"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"llama3",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Answer"}}],
		"usage":{"prompt_tokens":11,"completion_tokens":4,"total_tokens":15}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s, want suffix /chat/completions", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	defer srv.Close()

	cfg := llm.Config{Provider: llm.ProviderOpenAI, Model: "llama3", BaseURL: srv.URL}
	client, err := llm.NewFactory(&cfg, discardLogger(), nil).Client("")
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{Prompt: "q", MaxTokens: 500})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "Answer" {
		t.Errorf("Text = %q, want Answer", resp.Text)
	}
	if resp.InputTokens != 11 || resp.OutputTokens != 4 {
		t.Errorf("usage = %d/%d, want 11/4", resp.InputTokens, resp.OutputTokens)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing key", llm.ErrMissingKey, http.StatusBadRequest},
		{"unauthorized", llm.ErrUnauthorized, http.StatusUnauthorized},
		{"other", errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_LLM_MODEL", "claude-3-5-sonnet-latest")

	cfg := llm.Config{}
	if err := cfg.Finalize(&llm.Env{Model: "TEST_LLM_MODEL"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Provider != llm.ProviderAnthropic {
		t.Errorf("Provider = %s, want %s", cfg.Provider, llm.ProviderAnthropic)
	}
	if cfg.Model != "claude-3-5-sonnet-latest" {
		t.Errorf("Model = %s, want env override", cfg.Model)
	}
	if cfg.TimeoutDuration() != 60*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 60s", cfg.TimeoutDuration())
	}

	bad := llm.Config{Provider: "bedrock"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() with unsupported provider error = nil, want error")
	}
}
