// Package lifecycle coordinates named startup and shutdown hooks for the
// long-lived systems of a process.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Hook is a unit of startup or shutdown work.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Coordinator runs startup hooks concurrently and shutdown hooks in reverse
// registration order. It is ready once every startup hook has returned without error.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	startup sync.WaitGroup
	ready   atomic.Bool

	mu       sync.Mutex
	failures []error
	shutdown []namedHook
}

// New creates a Coordinator whose context is cancelled when Shutdown begins.
func New(logger *slog.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("system", "lifecycle"),
	}
}

// Context returns the coordinator's context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn in its own goroutine. A returned error is recorded
// against name and keeps the coordinator from becoming ready.
func (c *Coordinator) OnStartup(name string, fn Hook) {
	c.startup.Go(func() {
		start := time.Now()
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failures = append(c.failures, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
			c.logger.Error("startup hook failed", "hook", name, "error", err)
			return
		}
		c.logger.Info("startup hook complete", "hook", name, "elapsed", time.Since(start))
	})
}

// OnShutdown registers fn to run during Shutdown. Hooks registered later run first.
func (c *Coordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, namedHook{name: name, fn: fn})
}

// WaitForStartup blocks until every startup hook has returned and reports
// the joined failures, if any.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()

	c.mu.Lock()
	err := errors.Join(c.failures...)
	c.mu.Unlock()

	c.ready.Store(err == nil)
	return err
}

// Ready reports whether startup completed without failures and shutdown has not begun.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// Shutdown cancels the coordinator context and runs the shutdown hooks
// sequentially, newest first, sharing a single deadline of timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	c.mu.Lock()
	hooks := make([]namedHook, len(c.shutdown))
	copy(hooks, c.shutdown)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown timeout after %v: %s skipped", timeout, h.name))
			continue
		}
		if err := h.fn(ctx); err != nil {
			c.logger.Error("shutdown hook failed", "hook", h.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		c.logger.Info("shutdown hook complete", "hook", h.name)
	}

	return errors.Join(errs...)
}
