package history

import "github.com/JaimeStill/chateval/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Stats   *openapi.Operation
	Export  *openapi.Operation
	Find    *openapi.Operation
	Delete  *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Record ids are opaque; migrated browser records keep numeric ids.
var recordID = &openapi.Parameter{
	Name:        "id",
	In:          "path",
	Required:    true,
	Description: "Record ID",
	Schema:      &openapi.Schema{Type: "string"},
}

// Spec documents the history endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List evaluation history",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("search", "string", "Case-insensitive match on question or response", false),
			openapi.QueryParam("groundedness", "string", "Exact label, e.g. Partially Grounded", false),
			openapi.QueryEnum("severity", "Severity of the evaluation", "positive", "partial", "negative", "neutral"),
			openapi.QueryParam("date_from", "string", "RFC 3339 timestamp or YYYY-MM-DD", false),
			openapi.QueryParam("date_to", "string", "RFC 3339 timestamp or YYYY-MM-DD (inclusive)", false),
			openapi.QueryParam("limit", "integer", "Maximum records returned (default 50)", false),
			openapi.QueryParam("offset", "integer", "Records to skip", false),
			openapi.QueryParam("page", "integer", "1-indexed page; switches to page/page_size windowing", false),
			openapi.QueryParam("page_size", "integer", "Records per page", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("History window", "HistoryList"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Stats: &openapi.Operation{
		Summary: "Summarize evaluation history",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("History statistics", "HistoryStats"),
		},
	},
	Export: &openapi.Operation{
		Summary: "Download evaluation history",
		Parameters: []*openapi.Parameter{
			openapi.QueryEnum("format", "Export format, json when omitted", "json", "csv"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.Attachment("Attachment named evaluation_history_<timestamp>.<format>", "application/octet-stream"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a history record",
		Parameters: []*openapi.Parameter{recordID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("History record", "HistoryRecord"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a history record",
		Parameters: []*openapi.Parameter{recordID},
		Responses: map[int]*openapi.Response{
			200: {Description: "Record deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"HistoryRecord": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                  {Type: "string"},
				"question":            {Type: "string"},
				"response":            {Type: "string"},
				"evaluation":          {Type: "string"},
				"combined_evaluation": {Type: "array", Items: openapi.SchemaRef("EvaluationEntry")},
				"label":               {Type: "string"},
				"explanation":         {Type: "string"},
				"severity":            {Type: "string", Enum: []any{"positive", "partial", "negative", "neutral"}},
				"timestamp":           {Type: "string", Format: "date-time"},
				"is_improved":         {Type: "boolean"},
				"document_name":       {Type: "string"},
				"improved_from":       {Type: "string"},
			},
		},
		"EvaluationEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"type":       {Type: "string", Enum: []any{"groundedness", "factual_accuracy", "completeness", "relevance"}},
				"evaluation": {Type: "string"},
			},
		},
		"HistoryList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"evaluations": {Type: "array", Items: openapi.SchemaRef("HistoryRecord")},
				"total":       {Type: "integer"},
				"limit":       {Type: "integer"},
				"offset":      {Type: "integer"},
				"page":        {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"HistoryStats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_evaluations":  {Type: "integer"},
				"grounded":           {Type: "integer"},
				"partially_grounded": {Type: "integer"},
				"not_grounded":       {Type: "integer"},
				"improved":           {Type: "integer"},
				"improvement_rate":   {Type: "number"},
			},
		},
	},
}
