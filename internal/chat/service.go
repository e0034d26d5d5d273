package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/chateval/internal/documents"
	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/internal/history"
	"github.com/JaimeStill/chateval/internal/sessions"
	"github.com/JaimeStill/chateval/internal/workflow"
	"github.com/JaimeStill/chateval/pkg/formatting"
	"github.com/JaimeStill/chateval/pkg/llm"
)

// Defaults for Options fields left at zero.
const (
	DefaultDocumentLimit = 10000
	DefaultPreviewLimit  = 500
)

// Observer receives the severity of every recorded evaluation.
type Observer interface {
	ObserveEvaluation(criterion, severity string)
}

// Options sizes the document text kept in a session.
type Options struct {
	DocumentLimit int
	PreviewLimit  int
}

type service struct {
	sessions  *sessions.Registry
	workflow  *workflow.Runtime
	documents documents.System
	observer  Observer
	opts      Options
	logger    *slog.Logger
}

// New creates the chat system. observer may be nil.
func New(
	registry *sessions.Registry,
	rt *workflow.Runtime,
	docs documents.System,
	observer Observer,
	opts Options,
	logger *slog.Logger,
) System {
	if opts.DocumentLimit <= 0 {
		opts.DocumentLimit = DefaultDocumentLimit
	}
	if opts.PreviewLimit <= 0 {
		opts.PreviewLimit = DefaultPreviewLimit
	}
	return &service{
		sessions:  registry,
		workflow:  rt,
		documents: docs,
		observer:  observer,
		opts:      opts,
		logger:    logger.With("system", "chat"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	c, end, err := s.sessions.Begin(ctx, sessions.ActionChat)
	if err != nil {
		return nil, err
	}
	defer end()

	doc := s.activeDocument(ctx, c)

	result, err := s.workflow.Answer(ctx, req.Message, doc.Text, req.settings())
	if err != nil {
		return nil, err
	}

	historyID, err := s.record(ctx, c, result, history.Entry{DocumentName: doc.Filename})
	if err != nil {
		return nil, err
	}

	c.SetExchange(sessions.Exchange{
		Question:  result.Question,
		Response:  result.Response,
		Payload:   result.Payload,
		HistoryID: historyID,
	})

	return s.reply(result, historyID), nil
}

func (s *service) Improve(ctx context.Context, req ImproveRequest) (*Reply, error) {
	c, end, err := s.sessions.Begin(ctx, sessions.ActionImprove)
	if err != nil {
		return nil, err
	}
	defer end()

	last := c.Exchange()

	question := req.Question
	sourceID := req.HistoryID
	if question == "" {
		question = last.Question
	}
	if sourceID == "" && question == last.Question {
		sourceID = last.HistoryID
	}

	feedback, err := evaluation.Resolve(req.Evaluation, req.CombinedEvaluation)
	if err != nil {
		return nil, err
	}
	if feedback.Empty() {
		feedback = last.Payload
	}

	doc := s.activeDocument(ctx, c)

	result, err := s.workflow.Improve(ctx, question, doc.Text, feedback, req.settings())
	if err != nil {
		return nil, err
	}

	historyID, err := s.record(ctx, c, result, history.Entry{
		DocumentName: doc.Filename,
		ImprovedFrom: sourceID,
		Improved:     true,
	})
	if err != nil {
		return nil, err
	}

	c.SetExchange(sessions.Exchange{
		Question:  result.Question,
		Response:  result.Response,
		Payload:   result.Payload,
		HistoryID: historyID,
	})

	return s.reply(result, historyID), nil
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*UploadReply, error) {
	c, end, err := s.sessions.Begin(ctx, sessions.ActionUpload)
	if err != nil {
		return nil, err
	}
	defer end()

	data, err := documents.DecodeDataURI(req.PDFData)
	if err != nil {
		return nil, err
	}

	cmd, err := documents.Prepare(s.logger, data, req.Filename, c.ID)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	c.SetDocument(sessions.Document{
		ID:       doc.ID.String(),
		Filename: doc.Filename,
		Text:     formatting.Truncate(cmd.Text, s.opts.DocumentLimit),
	})

	pages := 0
	if cmd.PageCount != nil {
		pages = *cmd.PageCount
	}

	s.logger.InfoContext(ctx, "document activated", "session", c.ID, "document", doc.ID, "pages", pages)

	return &UploadReply{
		Success:    true,
		Message:    fmt.Sprintf("PDF uploaded successfully. Extracted %d characters.", utf8.RuneCountInString(cmd.Text)),
		Preview:    formatting.Truncate(cmd.Text, s.opts.PreviewLimit),
		Filename:   doc.Filename,
		PageCount:  pages,
		DocumentID: doc.ID.String(),
	}, nil
}

func (s *service) ValidateKey(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return llm.ErrMissingKey
	}

	client, err := s.workflow.LLM.Client(apiKey)
	if err != nil {
		return err
	}
	return llm.Validate(ctx, client)
}

func (s *service) ClearHistory(ctx context.Context) error {
	store, release, err := s.sessions.History(ctx)
	if err != nil {
		return err
	}
	defer release()
	return store.Clear(ctx)
}

func (s *service) PromptHistory(ctx context.Context) (*PromptHistory, error) {
	c, release, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return promptHistory(c.Prompts()), nil
}

func (s *service) SavePrompt(ctx context.Context, prompt string) (*PromptHistory, error) {
	c, release, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	if _, err := c.Prompts().Save(ctx, prompt); err != nil {
		return nil, err
	}
	return promptHistory(c.Prompts()), nil
}

// activeDocument returns the session's document. A session reloaded after
// eviction recovers its latest upload from the document store.
func (s *service) activeDocument(ctx context.Context, c *sessions.Context) sessions.Document {
	if doc, ok := c.Document(); ok {
		return doc
	}
	if s.documents == nil {
		return sessions.Document{}
	}

	latest, err := s.documents.Latest(ctx, c.ID)
	if err != nil {
		if !errors.Is(err, documents.ErrNotFound) {
			s.logger.WarnContext(ctx, "recover active document failed", "session", c.ID, "error", err)
		}
		return sessions.Document{}
	}

	text, err := s.documents.Text(ctx, latest.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "recover document text failed", "document", latest.ID, "error", err)
		return sessions.Document{}
	}

	doc := sessions.Document{
		ID:       latest.ID.String(),
		Filename: latest.Filename,
		Text:     formatting.Truncate(text, s.opts.DocumentLimit),
	}
	c.SetDocument(doc)
	return doc
}

// record appends an evaluated result to the session history in one write and
// returns the new record id. Results without an evaluation are not recorded.
func (s *service) record(
	ctx context.Context,
	c *sessions.Context,
	result *workflow.Result,
	entry history.Entry,
) (string, error) {
	if result.Payload.Empty() {
		return "", nil
	}

	entry.Question = result.Question
	entry.Response = result.Response
	entry.Payload = result.Payload

	rec, err := c.History().Append(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("record evaluation: %w", err)
	}

	if s.observer != nil {
		for _, a := range result.Payload.Assessments() {
			s.observer.ObserveEvaluation(string(a.Criterion), string(a.Severity))
		}
	}

	return rec.ID, nil
}

func (s *service) reply(result *workflow.Result, historyID string) *Reply {
	html, err := formatting.Markdown(result.Response)
	if err != nil {
		s.logger.Warn("markdown render failed", "error", err)
	}

	r := &Reply{
		Response:     result.Response,
		ResponseHTML: html,
		HistoryID:    historyID,
	}

	if result.Payload.Empty() {
		return r
	}

	_, combined := result.Payload.Wire()
	primary, _ := result.Payload.Primary()
	parsed := evaluation.Parse(primary.Raw)

	r.Evaluation = primary.Raw
	r.CombinedEvaluation = combined
	r.Parsed = &parsed
	r.Severity = evaluation.Classify(parsed.Label, primary.Criterion)
	r.Assessments = result.Payload.Assessments()
	return r
}

func promptHistory(p *sessions.PromptHistory) *PromptHistory {
	return &PromptHistory{
		Current: p.Current(),
		History: p.List(),
	}
}
