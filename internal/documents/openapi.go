package documents

import "github.com/JaimeStill/chateval/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Download *openapi.Operation
	Upload   *openapi.Operation
	Search   *openapi.Operation
	Delete   *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var documentID = openapi.PathParam("id", "Document ID")

// Spec documents the document endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List documents of the current session",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search filenames", false),
			openapi.QueryParam("sort", "string", "Sort fields, prefix - for descending", false),
			openapi.QueryParam("filename", "string", "Filter by filename (contains)", false),
			openapi.QueryParam("content_type", "string", "Filter by content type", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document page", "DocumentPage"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a document",
		Parameters: []*openapi.Parameter{documentID},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		Summary:    "Download the original PDF",
		Parameters: []*openapi.Parameter{documentID},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "PDF attachment",
				Content: map[string]*openapi.MediaType{
					"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload a PDF",
		Description: "Extracts text and page count, then stores the file and its text.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type:     "object",
						Required: []string{"file"},
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary"},
						},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created document", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("TooLarge"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search documents of the current session",
		RequestBody: openapi.RequestBodyJSON("DocumentSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document page", "DocumentPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a document",
		Parameters: []*openapi.Parameter{documentID},
		Responses: map[int]*openapi.Response{
			204: {Description: "Document deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
				"text_length":  {Type: "integer"},
				"storage_key":  {Type: "string"},
				"uploaded_at":  {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"DocumentSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":         {Type: "integer"},
				"page_size":    {Type: "integer"},
				"search":       {Type: "string"},
				"sort":         {Type: "string"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
			},
		},
		"DocumentPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Document")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	},
}
