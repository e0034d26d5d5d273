package sessions

import (
	"fmt"
	"sync"

	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/internal/history"
)

// Action names an operation guarded against concurrent execution within a session.
type Action string

const (
	ActionChat    Action = "chat"
	ActionImprove Action = "improve"
	ActionUpload  Action = "upload"
)

// Exchange is the most recent question and answer of a session.
type Exchange struct {
	Question  string
	Response  string
	Payload   evaluation.Payload
	HistoryID string
}

// Document is the PDF a session is chatting about.
type Document struct {
	ID       string
	Filename string
	Text     string
}

// Context holds the server-side conversation state of one session.
type Context struct {
	ID string

	mu       sync.Mutex
	inflight map[Action]bool
	exchange Exchange
	document *Document

	history *history.Store
	prompts *PromptHistory

	// holds counts outstanding Registry acquisitions, guarded by the registry.
	holds int
}

func newContext(id string, store *history.Store, prompts *PromptHistory) *Context {
	return &Context{
		ID:       id,
		inflight: make(map[Action]bool),
		history:  store,
		prompts:  prompts,
	}
}

// Begin marks action as in flight and returns the function that ends it.
// A second Begin for the same action before the first ends fails with ErrBusy.
func (c *Context) Begin(action Action) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[action] {
		return nil, fmt.Errorf("%w: %s", ErrBusy, action)
	}
	c.inflight[action] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.inflight, action)
			c.mu.Unlock()
		})
	}, nil
}

// Exchange returns the latest exchange.
func (c *Context) Exchange() Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exchange
}

// SetExchange replaces the latest exchange.
func (c *Context) SetExchange(e Exchange) {
	c.mu.Lock()
	c.exchange = e
	c.mu.Unlock()
}

// Document returns the active document, if one was uploaded.
func (c *Context) Document() (Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.document == nil {
		return Document{}, false
	}
	return *c.document, true
}

// SetDocument makes d the active document.
func (c *Context) SetDocument(d Document) {
	c.mu.Lock()
	c.document = &d
	c.mu.Unlock()
}

// History returns the session's evaluation history.
func (c *Context) History() *history.Store {
	return c.history
}

// Prompts returns the session's evaluation prompt edit history.
func (c *Context) Prompts() *PromptHistory {
	return c.prompts
}
