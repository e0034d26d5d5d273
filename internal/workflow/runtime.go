package workflow

import (
	"log/slog"
	"time"

	"github.com/JaimeStill/chateval/internal/prompts"
	"github.com/JaimeStill/chateval/pkg/llm"
)

// Defaults for Options fields left at zero.
const (
	DefaultChatMaxTokens  = 1000
	DefaultEvalMaxTokens  = 500
	DefaultContextLimit   = 3000
	DefaultMaxConcurrency = 4
)

// Options bounds the provider calls a round-trip makes.
// ContextLimit caps the document characters placed in evaluation and improvement prompts.
type Options struct {
	ChatMaxTokens  int
	EvalMaxTokens  int
	ContextLimit   int
	MaxConcurrency int
}

func (o Options) withDefaults() Options {
	if o.ChatMaxTokens <= 0 {
		o.ChatMaxTokens = DefaultChatMaxTokens
	}
	if o.EvalMaxTokens <= 0 {
		o.EvalMaxTokens = DefaultEvalMaxTokens
	}
	if o.ContextLimit <= 0 {
		o.ContextLimit = DefaultContextLimit
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	return o
}

// Runtime bundles the dependencies that chat, evaluation, and improvement require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
// Prompts may be nil, in which case the built-in evaluation prompts are used.
type Runtime struct {
	LLM     llm.Factory
	Prompts prompts.System
	Options Options
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewRuntime fills option defaults and derives the workflow logger.
func NewRuntime(factory llm.Factory, ps prompts.System, opts Options, logger *slog.Logger) *Runtime {
	return &Runtime{
		LLM:     factory,
		Prompts: ps,
		Options: opts.withDefaults(),
		Logger:  logger.With("system", "workflow"),
		Now:     time.Now,
	}
}
