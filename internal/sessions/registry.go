// Package sessions keeps per-session conversation state: the latest exchange,
// the active document, in-flight guards, evaluation history, and prompt edits.
package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/chateval/internal/history"
	"github.com/JaimeStill/chateval/pkg/kv"
	"github.com/JaimeStill/chateval/pkg/middleware"
)

// DefaultMaxSessions bounds the number of sessions held in memory.
const DefaultMaxSessions = 100

// Options sizes a Registry.
type Options struct {
	MaxSessions     int
	HistoryCapacity int
	PromptCapacity  int
}

// Registry resolves session ids to conversation contexts. Least recently used
// sessions are dropped from memory once nothing holds them; their history and
// prompts reload from slots. A session has at most one resident context, so
// each durable slot has a single writer.
type Registry struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *Context]
	resident map[string]*Context

	loads  singleflight.Group
	slots  kv.System
	opts   Options
	logger *slog.Logger
}

// New creates a registry persisting through slots.
func New(slots kv.System, opts Options, logger *slog.Logger) (*Registry, error) {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.PromptCapacity <= 0 {
		opts.PromptCapacity = DefaultPromptCapacity
	}

	r := &Registry{
		resident: make(map[string]*Context),
		slots:    slots,
		opts:     opts,
		logger:   logger.With("system", "sessions"),
	}

	// Called from cache.Add, which only runs with r.mu held.
	cache, err := lru.NewWithEvict(opts.MaxSessions, func(id string, c *Context) {
		if c.holds > 0 {
			r.logger.Debug("session evicted while held", "session", id, "holds", c.holds)
			return
		}
		delete(r.resident, id)
		r.logger.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	r.cache = cache

	return r, nil
}

// Acquire returns the conversation context of the session carried by ctx.
// The context stays resident until release is called.
func (r *Registry) Acquire(ctx context.Context) (*Context, func(), error) {
	id, ok := middleware.SessionID(ctx)
	if !ok {
		return nil, nil, ErrNoSession
	}
	return r.Open(ctx, id)
}

// Begin acquires the session carried by ctx and marks action as in flight.
// The returned end function finishes the action and releases the session.
func (r *Registry) Begin(ctx context.Context, action Action) (*Context, func(), error) {
	c, release, err := r.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}

	done, err := c.Begin(action)
	if err != nil {
		release()
		return nil, nil, err
	}

	return c, func() {
		done()
		release()
	}, nil
}

// History returns the evaluation history of the session carried by ctx,
// held until release is called.
func (r *Registry) History(ctx context.Context) (*history.Store, func(), error) {
	c, release, err := r.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c.History(), release, nil
}

// Open returns the context for id, loading it from slots when it is not
// resident. Concurrent opens of the same id share one load. The caller must
// call release once it no longer uses the context.
func (r *Registry) Open(ctx context.Context, id string) (*Context, func(), error) {
	if c, ok := r.hold(id); ok {
		return c, r.releaser(c), nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		if c, ok := r.peek(id); ok {
			return c, nil
		}

		store, err := history.Open(ctx, history.NewKVPersister(r.slots, id), r.opts.HistoryCapacity)
		if err != nil {
			return nil, err
		}
		prompts, err := LoadPrompts(ctx, r.slots, id, r.opts.PromptCapacity)
		if err != nil {
			return nil, err
		}

		r.logger.Debug("session loaded", "session", id, "records", store.Len())
		return newContext(id, store, prompts), nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}

	c := r.admit(v.(*Context))
	return c, r.releaser(c), nil
}

// Len returns the number of sessions in the recently used set.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Resident returns the number of sessions held in memory, including evicted
// sessions that are still held.
func (r *Registry) Resident() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resident)
}

func (r *Registry) hold(id string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.resident[id]
	if !ok {
		return nil, false
	}
	c.holds++
	r.cache.Add(id, c)
	return c, true
}

func (r *Registry) peek(id string) (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.resident[id]
	return c, ok
}

// admit registers a loaded context unless another one became resident
// first, in which case that one wins and loaded is discarded.
func (r *Registry) admit(loaded *Context) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.resident[loaded.ID]
	if !ok {
		c = loaded
		r.resident[c.ID] = c
	}
	c.holds++
	r.cache.Add(c.ID, c)
	return c
}

func (r *Registry) releaser(c *Context) func() {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(c) })
	}
}

func (r *Registry) release(c *Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.holds--
	if c.holds > 0 || r.cache.Contains(c.ID) {
		return
	}
	if r.resident[c.ID] == c {
		delete(r.resident, c.ID)
		r.logger.Debug("held session released", "session", c.ID)
	}
}
