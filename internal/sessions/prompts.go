package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/chateval/internal/history"
	"github.com/JaimeStill/chateval/pkg/kv"
)

// DefaultPromptCapacity is the number of saved prompts kept per session.
const DefaultPromptCapacity = 10

// PromptEntry is one saved revision of a session's evaluation prompt.
type PromptEntry struct {
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
}

// PromptHistory is the newest-first edit history of the evaluation prompt.
// The head entry is the prompt currently in use.
type PromptHistory struct {
	mu       sync.Mutex
	entries  []PromptEntry
	capacity int
	slots    kv.System
	key      string
	now      func() time.Time
}

// LoadPrompts reads the prompt history of session from slots.
func LoadPrompts(ctx context.Context, slots kv.System, session string, capacity int) (*PromptHistory, error) {
	if capacity <= 0 {
		capacity = DefaultPromptCapacity
	}

	p := &PromptHistory{
		capacity: capacity,
		slots:    slots,
		key:      kv.Key("prompts", session),
		now:      time.Now,
	}

	data, err := slots.Get(ctx, p.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		p.entries = []PromptEntry{}
	case err != nil:
		return nil, fmt.Errorf("load prompt history: %w", err)
	default:
		entries, err := history.Unmarshal(data, decodeLegacyPrompts)
		if err != nil {
			return nil, fmt.Errorf("load prompt history: %w", err)
		}
		p.entries = entries[:min(len(entries), capacity)]
	}

	return p, nil
}

// Current returns the prompt in use, or "" when none was saved.
func (p *PromptHistory) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return ""
	}
	return p.entries[0].Prompt
}

// List returns saved prompts newest first.
func (p *PromptHistory) List() []PromptEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PromptEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Save records prompt as the newest revision, dropping the oldest beyond capacity.
func (p *PromptHistory) Save(ctx context.Context, prompt string) (PromptEntry, error) {
	if strings.TrimSpace(prompt) == "" {
		return PromptEntry{}, ErrEmptyPrompt
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	e := PromptEntry{Prompt: prompt, Timestamp: p.now().UTC()}
	next := make([]PromptEntry, 0, len(p.entries)+1)
	next = append(next, e)
	next = append(next, p.entries...)
	next = next[:min(len(next), p.capacity)]

	data, err := history.Marshal(next)
	if err != nil {
		return PromptEntry{}, err
	}
	if err := p.slots.Put(ctx, p.key, data); err != nil {
		return PromptEntry{}, fmt.Errorf("persist prompt history: %w", err)
	}

	p.entries = next
	return e, nil
}

// decodeLegacyPrompts reads the browser's [{prompt, timestamp}] array. Its
// timestamps were locale strings, so anything but RFC 3339 becomes zero.
func decodeLegacyPrompts(data []byte) ([]PromptEntry, error) {
	var items []struct {
		Prompt    string `json:"prompt"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode legacy prompts: %w", err)
	}

	entries := make([]PromptEntry, 0, len(items))
	for _, item := range items {
		e := PromptEntry{Prompt: item.Prompt}
		if t, err := time.Parse(time.RFC3339Nano, item.Timestamp); err == nil {
			e.Timestamp = t.UTC()
		}
		entries = append(entries, e)
	}
	return entries, nil
}
