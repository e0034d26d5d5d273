// Package llm provides a minimal text completion client over the Anthropic and
// OpenAI-compatible provider SDKs.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Request is a single-turn completion request.
type Request struct {
	Prompt    string
	MaxTokens int
}

// Response carries the completion text and token usage.
type Response struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Client performs single-turn text completions against one provider with one key.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Observer receives the outcome of every provider call.
type Observer interface {
	ObserveCompletion(provider, model string, elapsed time.Duration, err error)
}

// Factory builds clients bound to a caller-supplied API key.
type Factory interface {
	// Client returns a client for apiKey, falling back to the configured server key.
	// Returns ErrMissingKey when neither is available.
	Client(apiKey string) (Client, error)
	// Provider returns the configured provider name.
	Provider() string
}

type factory struct {
	cfg      Config
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// NewFactory creates a client factory from a finalized config. observer may be nil.
func NewFactory(cfg *Config, logger *slog.Logger, observer Observer) Factory {
	return &factory{
		cfg:      *cfg,
		timeout:  cfg.TimeoutDuration(),
		logger:   logger.With("system", "llm"),
		observer: observer,
	}
}

func (f *factory) Provider() string {
	return f.cfg.Provider
}

func (f *factory) Client(apiKey string) (Client, error) {
	key := apiKey
	if key == "" {
		key = f.cfg.APIKey
	}

	var c Client
	switch f.cfg.Provider {
	case ProviderAnthropic:
		if key == "" {
			return nil, ErrMissingKey
		}
		c = newAnthropic(key, f.cfg.BaseURL, f.cfg.Model)
	case ProviderOpenAI:
		// OpenAI-compatible local endpoints accept requests without a key.
		if key == "" && f.cfg.BaseURL == "" {
			return nil, ErrMissingKey
		}
		c = newOpenAI(key, f.cfg.BaseURL, f.cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported provider %q", f.cfg.Provider)
	}

	return &observed{
		inner:    c,
		provider: f.cfg.Provider,
		model:    f.cfg.Model,
		timeout:  f.timeout,
		logger:   f.logger,
		observer: f.observer,
	}, nil
}

// Validate issues the smallest possible completion to confirm the client's key is accepted.
func Validate(ctx context.Context, c Client) error {
	_, err := c.Complete(ctx, Request{Prompt: "Hi", MaxTokens: 10})
	return err
}

type observed struct {
	inner    Client
	provider string
	model    string
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

func (o *observed) Complete(ctx context.Context, req Request) (*Response, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.inner.Complete(ctx, req)
	elapsed := time.Since(start)
	err = MapError(err)

	if o.observer != nil {
		o.observer.ObserveCompletion(o.provider, o.model, elapsed, err)
	}

	if err != nil {
		o.logger.Warn("completion failed", "provider", o.provider, "model", o.model, "error", err)
		return nil, err
	}

	o.logger.Debug(
		"completion finished",
		"provider", o.provider,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"duration", elapsed,
	)
	return resp, nil
}
