package chat

import "github.com/JaimeStill/chateval/pkg/openapi"

type spec struct {
	Chat          *openapi.Operation
	Improve       *openapi.Operation
	Upload        *openapi.Operation
	ValidateKey   *openapi.Operation
	ClearHistory  *openapi.Operation
	PromptHistory *openapi.Operation
	SavePrompt    *openapi.Operation
	Schemas       map[string]*openapi.Schema
}

var criterionEnum = []any{"groundedness", "factual_accuracy", "completeness", "relevance"}

// Spec documents the conversational endpoints.
var Spec = spec{
	Chat: &openapi.Operation{
		Summary:     "Ask a question",
		Description: "Answers from the session's active document when one was uploaded, then evaluates the answer.",
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Answer and evaluation", "ChatReply"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Improve: &openapi.Operation{
		Summary:     "Improve the latest answer",
		Description: "Omitted fields fall back to the session's latest exchange.",
		RequestBody: openapi.RequestBodyJSON("ImproveRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Improved answer and evaluation", "ChatReply"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload a PDF as base64",
		RequestBody: openapi.RequestBodyJSON("UploadRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Active document", "UploadReply"),
			400: openapi.ResponseJSON("Upload rejected", "UploadError"),
			409: openapi.ResponseJSON("Upload already in progress", "UploadError"),
			413: openapi.ResponseJSON("PDF too large", "UploadError"),
		},
	},
	ValidateKey: &openapi.Operation{
		Summary:     "Validate a provider API key",
		RequestBody: openapi.RequestBodyJSON("ValidateKeyRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Key accepted", "KeyValidation"),
			400: openapi.ResponseJSON("Key missing or check failed", "KeyValidation"),
			401: openapi.ResponseJSON("Key rejected", "KeyValidation"),
		},
	},
	ClearHistory: &openapi.Operation{
		Summary: "Clear the evaluation history",
		Responses: map[int]*openapi.Response{
			200: {Description: "History cleared"},
		},
	},
	PromptHistory: &openapi.Operation{
		Summary: "Get the evaluation prompt history",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt history", "PromptHistory"),
		},
	},
	SavePrompt: &openapi.Operation{
		Summary:     "Save an evaluation prompt revision",
		RequestBody: openapi.RequestBodyJSON("SavePromptRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt history", "PromptHistory"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"CriterionRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"type":   {Type: "string", Enum: criterionEnum},
				"prompt": {Type: "string", Description: "Template with {document_content}, {question}, {response}, {timestamp}"},
			},
		},
		"EvaluationEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"type":       {Type: "string", Enum: criterionEnum},
				"evaluation": {Type: "string"},
			},
		},
		"ChatRequest": {
			Type:     "object",
			Required: []string{"message"},
			Properties: map[string]*openapi.Schema{
				"message":             {Type: "string"},
				"api_key":             {Type: "string"},
				"evaluation_prompt":   {Type: "string"},
				"evaluation_criteria": {Type: "array", Items: openapi.SchemaRef("CriterionRequest")},
			},
		},
		"ImproveRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"question":            {Type: "string"},
				"response":            {Type: "string"},
				"evaluation":          {Type: "string"},
				"combined_evaluation": {Type: "array", Items: openapi.SchemaRef("EvaluationEntry")},
				"history_id":          {Type: "string"},
				"api_key":             {Type: "string"},
				"evaluation_prompt":   {Type: "string"},
				"evaluation_criteria": {Type: "array", Items: openapi.SchemaRef("CriterionRequest")},
			},
		},
		"ChatReply": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"response":            {Type: "string"},
				"response_html":       {Type: "string"},
				"evaluation":          {Type: "string"},
				"combined_evaluation": {Type: "array", Items: openapi.SchemaRef("EvaluationEntry")},
				"history_id":          {Type: "string"},
				"parsed": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"label":       {Type: "string"},
						"explanation": {Type: "string"},
					},
				},
				"severity":    {Type: "string", Enum: []any{"positive", "partial", "negative", "neutral"}},
				"assessments": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
		"UploadRequest": {
			Type:     "object",
			Required: []string{"pdf_data"},
			Properties: map[string]*openapi.Schema{
				"pdf_data": {Type: "string", Description: "data:application/pdf;base64,... or bare base64"},
				"filename": {Type: "string"},
			},
		},
		"UploadReply": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":     {Type: "boolean"},
				"message":     {Type: "string"},
				"preview":     {Type: "string"},
				"filename":    {Type: "string"},
				"page_count":  {Type: "integer"},
				"document_id": {Type: "string", Format: "uuid"},
			},
		},
		"UploadError": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"error":   {Type: "string"},
			},
		},
		"ValidateKeyRequest": {
			Type:     "object",
			Required: []string{"api_key"},
			Properties: map[string]*openapi.Schema{
				"api_key": {Type: "string"},
			},
		},
		"KeyValidation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"valid":   {Type: "boolean"},
				"message": {Type: "string"},
				"error":   {Type: "string"},
			},
		},
		"SavePromptRequest": {
			Type:     "object",
			Required: []string{"prompt"},
			Properties: map[string]*openapi.Schema{
				"prompt": {Type: "string"},
			},
		},
		"PromptHistory": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"current": {Type: "string"},
				"history": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"prompt":    {Type: "string"},
							"timestamp": {Type: "string", Format: "date-time"},
						},
					},
				},
			},
		},
	},
}
