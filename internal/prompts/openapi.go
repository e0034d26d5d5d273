package prompts

import "github.com/JaimeStill/chateval/pkg/openapi"

type spec struct {
	List         *openapi.Operation
	Criteria     *openapi.Operation
	Find         *openapi.Operation
	Instructions *openapi.Operation
	Spec         *openapi.Operation
	Default      *openapi.Operation
	Create       *openapi.Operation
	Update       *openapi.Operation
	Delete       *openapi.Operation
	Search       *openapi.Operation
	Activate     *openapi.Operation
	Deactivate   *openapi.Operation
	Schemas      map[string]*openapi.Schema
}

var criterionParam = &openapi.Parameter{
	Name:     "criterion",
	In:       "path",
	Required: true,
	Schema: &openapi.Schema{
		Type: "string",
		Enum: []any{"groundedness", "factual_accuracy", "completeness", "relevance"},
	},
}

var promptID = openapi.PathParam("id", "Prompt ID")

// Docs documents the prompt endpoints.
var Docs = spec{
	List: &openapi.Operation{
		Summary: "List prompt overrides",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search name and description", false),
			openapi.QueryParam("sort", "string", "Sort fields, prefix - for descending", false),
			openapi.QueryParam("criterion", "string", "Filter by criterion", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("active", "boolean", "Filter by active flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
		},
	},
	Criteria: &openapi.Operation{
		Summary: "List evaluation criteria",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Criteria",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
				},
			},
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a prompt override",
		Parameters: []*openapi.Parameter{promptID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Instructions: &openapi.Operation{
		Summary:    "Effective instructions for a criterion",
		Parameters: []*openapi.Parameter{criterionParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Instructions", "CriterionContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Spec: &openapi.Operation{
		Summary:    "Output specification for a criterion",
		Parameters: []*openapi.Parameter{criterionParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Specification", "CriterionContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Default: &openapi.Operation{
		Summary:    "Built-in prompt for a criterion",
		Parameters: []*openapi.Parameter{criterionParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Default prompt", "CriterionContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create a prompt override",
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update a prompt override",
		Parameters:  []*openapi.Parameter{promptID},
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt override",
		Parameters: []*openapi.Parameter{promptID},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompt overrides",
		RequestBody: openapi.RequestBodyJSON("PromptSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Activate: &openapi.Operation{
		Summary:     "Activate a prompt override",
		Description: "Deactivates any other active prompt for the same criterion in one transaction.",
		Parameters:  []*openapi.Parameter{promptID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Activated prompt", "Prompt"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Deactivate: &openapi.Operation{
		Summary:    "Deactivate a prompt override",
		Parameters: []*openapi.Parameter{promptID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Deactivated prompt", "Prompt"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"criterion":    {Type: "string"},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "criterion", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"criterion":    {Type: "string"},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
			},
		},
		"PromptSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer"},
				"page_size": {Type: "integer"},
				"search":    {Type: "string"},
				"sort":      {Type: "string"},
				"criterion": {Type: "string"},
				"name":      {Type: "string"},
				"active":    {Type: "boolean"},
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CriterionContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"criterion": {Type: "string"},
				"title":     {Type: "string"},
				"content":   {Type: "string"},
			},
		},
	},
}
