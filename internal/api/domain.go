package api

import (
	"fmt"

	"github.com/JaimeStill/chateval/internal/chat"
	"github.com/JaimeStill/chateval/internal/documents"
	"github.com/JaimeStill/chateval/internal/prompts"
	"github.com/JaimeStill/chateval/internal/sessions"
	"github.com/JaimeStill/chateval/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Prompts   prompts.System
	Sessions  *sessions.Registry
	Workflow  *workflow.Runtime
	Chat      chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	registry, err := sessions.New(
		runtime.Slots,
		sessions.Options{
			MaxSessions:     runtime.Session.MaxSessions,
			HistoryCapacity: runtime.History.Capacity,
			PromptCapacity:  runtime.History.PromptCapacity,
		},
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("sessions init failed: %w", err)
	}

	wf := workflow.NewRuntime(
		runtime.LLM,
		promptsSystem,
		workflow.Options{
			ChatMaxTokens:  runtime.Agent.ChatMaxTokens,
			EvalMaxTokens:  runtime.Agent.EvalMaxTokens,
			ContextLimit:   runtime.Agent.ContextLimit,
			MaxConcurrency: runtime.Agent.MaxConcurrency,
		},
		runtime.Logger,
	)

	var observer chat.Observer
	if runtime.Metrics != nil {
		observer = runtime.Metrics
	}

	chatSystem := chat.New(
		registry,
		wf,
		docsSystem,
		observer,
		chat.Options{DocumentLimit: runtime.Agent.DocumentLimit},
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Prompts:   promptsSystem,
		Sessions:  registry,
		Workflow:  wf,
		Chat:      chatSystem,
	}, nil
}
