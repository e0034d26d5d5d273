package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/chateval/pkg/llm"
)

const (
	EnvAgentChatMaxTokens  = "CHATEVAL_AGENT_CHAT_MAX_TOKENS"
	EnvAgentEvalMaxTokens  = "CHATEVAL_AGENT_EVAL_MAX_TOKENS"
	EnvAgentContextLimit   = "CHATEVAL_AGENT_CONTEXT_LIMIT"
	EnvAgentDocumentLimit  = "CHATEVAL_AGENT_DOCUMENT_LIMIT"
	EnvAgentMaxConcurrency = "CHATEVAL_AGENT_MAX_CONCURRENCY"
)

var llmEnv = &llm.Env{
	Provider: "CHATEVAL_AGENT_PROVIDER",
	Model:    "CHATEVAL_AGENT_MODEL",
	BaseURL:  "CHATEVAL_AGENT_BASE_URL",
	APIKey:   "CHATEVAL_AGENT_API_KEY",
	Timeout:  "CHATEVAL_AGENT_TIMEOUT",
}

// AgentConfig holds the provider connection and the token and context
// limits applied to every chat, evaluation, and improve call.
type AgentConfig struct {
	llm.Config

	ChatMaxTokens  int `toml:"chat_max_tokens"`
	EvalMaxTokens  int `toml:"eval_max_tokens"`
	ContextLimit   int `toml:"context_limit"`
	DocumentLimit  int `toml:"document_limit"`
	MaxConcurrency int `toml:"max_concurrency"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the agent limits and the embedded provider config.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Config.Finalize(llmEnv); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	c.Config.Merge(&overlay.Config)

	if overlay.ChatMaxTokens != 0 {
		c.ChatMaxTokens = overlay.ChatMaxTokens
	}
	if overlay.EvalMaxTokens != 0 {
		c.EvalMaxTokens = overlay.EvalMaxTokens
	}
	if overlay.ContextLimit != 0 {
		c.ContextLimit = overlay.ContextLimit
	}
	if overlay.DocumentLimit != 0 {
		c.DocumentLimit = overlay.DocumentLimit
	}
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.ChatMaxTokens == 0 {
		c.ChatMaxTokens = 1000
	}
	if c.EvalMaxTokens == 0 {
		c.EvalMaxTokens = 500
	}
	if c.ContextLimit == 0 {
		c.ContextLimit = 3000
	}
	if c.DocumentLimit == 0 {
		c.DocumentLimit = 10000
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 4
	}
}

func (c *AgentConfig) loadEnv() {
	setInt := func(env string, dst *int) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(EnvAgentChatMaxTokens, &c.ChatMaxTokens)
	setInt(EnvAgentEvalMaxTokens, &c.EvalMaxTokens)
	setInt(EnvAgentContextLimit, &c.ContextLimit)
	setInt(EnvAgentDocumentLimit, &c.DocumentLimit)
	setInt(EnvAgentMaxConcurrency, &c.MaxConcurrency)
}

func (c *AgentConfig) validate() error {
	if c.ChatMaxTokens < 1 {
		return fmt.Errorf("invalid chat_max_tokens: %d", c.ChatMaxTokens)
	}
	if c.EvalMaxTokens < 1 {
		return fmt.Errorf("invalid eval_max_tokens: %d", c.EvalMaxTokens)
	}
	if c.ContextLimit < 1 {
		return fmt.Errorf("invalid context_limit: %d", c.ContextLimit)
	}
	if c.DocumentLimit < c.ContextLimit {
		return fmt.Errorf("document_limit %d is below context_limit %d", c.DocumentLimit, c.ContextLimit)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("invalid max_concurrency: %d", c.MaxConcurrency)
	}
	return nil
}
