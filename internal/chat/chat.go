// Package chat implements the conversational endpoints: answering questions
// about the session's PDF, evaluating and improving answers, PDF upload,
// API key validation, and the session's prompt edit history.
package chat

import (
	"github.com/JaimeStill/chateval/internal/evaluation"
	"github.com/JaimeStill/chateval/internal/sessions"
	"github.com/JaimeStill/chateval/internal/workflow"
)

// ChatRequest asks a question in the current session.
type ChatRequest struct {
	Message            string                      `json:"message"`
	APIKey             string                      `json:"api_key,omitempty"`
	EvaluationPrompt   string                      `json:"evaluation_prompt,omitempty"`
	EvaluationCriteria []workflow.CriterionRequest `json:"evaluation_criteria,omitempty"`
}

// ImproveRequest asks for a better answer. Omitted fields fall back to the
// session's latest exchange.
type ImproveRequest struct {
	Question           string                      `json:"question,omitempty"`
	Response           string                      `json:"response,omitempty"`
	Evaluation         string                      `json:"evaluation,omitempty"`
	CombinedEvaluation []evaluation.Entry          `json:"combined_evaluation,omitempty"`
	HistoryID          string                      `json:"history_id,omitempty"`
	APIKey             string                      `json:"api_key,omitempty"`
	EvaluationPrompt   string                      `json:"evaluation_prompt,omitempty"`
	EvaluationCriteria []workflow.CriterionRequest `json:"evaluation_criteria,omitempty"`
}

func (r ImproveRequest) settings() workflow.Settings {
	return workflow.Settings{
		APIKey:   r.APIKey,
		Prompt:   r.EvaluationPrompt,
		Criteria: r.EvaluationCriteria,
	}
}

func (r ChatRequest) settings() workflow.Settings {
	return workflow.Settings{
		APIKey:   r.APIKey,
		Prompt:   r.EvaluationPrompt,
		Criteria: r.EvaluationCriteria,
	}
}

// Reply is the answer to a chat or improve request. Evaluation carries the
// primary evaluation text whenever any evaluation ran; CombinedEvaluation is
// set only for multi-criterion evaluations.
type Reply struct {
	Response           string                  `json:"response"`
	ResponseHTML       string                  `json:"response_html"`
	Evaluation         string                  `json:"evaluation,omitempty"`
	CombinedEvaluation []evaluation.Entry      `json:"combined_evaluation,omitempty"`
	HistoryID          string                  `json:"history_id,omitempty"`
	Parsed             *evaluation.Parsed      `json:"parsed,omitempty"`
	Severity           evaluation.Severity     `json:"severity,omitempty"`
	Assessments        []evaluation.Assessment `json:"assessments,omitempty"`
}

// UploadRequest carries a PDF as a data URI or bare base64 text.
type UploadRequest struct {
	PDFData  string `json:"pdf_data"`
	Filename string `json:"filename,omitempty"`
}

// UploadReply describes the document that became the session's active document.
type UploadReply struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Preview    string `json:"preview"`
	Filename   string `json:"filename"`
	PageCount  int    `json:"page_count"`
	DocumentID string `json:"document_id"`
}

// PromptHistory is the session's current evaluation prompt and its revisions.
type PromptHistory struct {
	Current string                 `json:"current"`
	History []sessions.PromptEntry `json:"history"`
}

// SavePromptRequest records a new revision of the evaluation prompt.
type SavePromptRequest struct {
	Prompt string `json:"prompt"`
}

// ValidateKeyRequest carries the API key to check.
type ValidateKeyRequest struct {
	APIKey string `json:"api_key"`
}
