package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/chateval/internal/documents"
	"github.com/JaimeStill/chateval/pkg/middleware"
	"github.com/JaimeStill/chateval/pkg/pagination"
	"github.com/JaimeStill/chateval/pkg/routes"
)

const testSession = "11111111-2222-3333-4444-555555555555"

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	latestFn func(ctx context.Context, sessionID string) (*documents.Document, error)
	createFn func(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	textFn   func(ctx context.Context, id uuid.UUID) (string, error)
	openFn   func(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *documents.Handler {
	return documents.NewHandler(m, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUploadSize)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Latest(ctx context.Context, sessionID string) (*documents.Document, error) {
	return m.latestFn(ctx, sessionID)
}

func (m *mockSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Text(ctx context.Context, id uuid.UUID) (string, error) {
	return m.textFn(ctx, id)
}

func (m *mockSystem) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	return m.openFn(ctx, id)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(50*1024*1024).Routes())
	return mux
}

// serve runs req against mux inside the test session.
func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(middleware.WithSessionID(req.Context(), testSession))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func sampleDoc() documents.Document {
	return documents.Document{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		SessionID:   testSession,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   11,
		PageCount:   ptr(5),
		TextLength:  1200,
		StorageKey:  "documents/550e8400-e29b-41d4-a716-446655440000/source/report.pdf",
		UploadedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func findSample(doc documents.Document) func(context.Context, uuid.UUID) (*documents.Document, error) {
	return func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
		if id != doc.ID {
			return nil, documents.ErrNotFound
		}
		return &doc, nil
	}
}

func TestHandlerList(t *testing.T) {
	doc := sampleDoc()

	t.Run("scopes to session", func(t *testing.T) {
		var captured documents.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f documents.Filters) (*pagination.PageResult[documents.Document], error) {
				captured = f
				result := pagination.NewPageResult([]documents.Document{doc}, 1, 1, 20)
				return &result, nil
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents?filename=report", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.SessionID == nil || *captured.SessionID != testSession {
			t.Errorf("session filter = %v, want %s", captured.SessionID, testSession)
		}
		if captured.Filename == nil || *captured.Filename != "report" {
			t.Errorf("filename filter = %v, want report", captured.Filename)
		}

		var result pagination.PageResult[documents.Document]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 || len(result.Data) != 1 {
			t.Fatalf("total = %d, data = %d, want 1 and 1", result.Total, len(result.Data))
		}
		if result.Data[0].ID != doc.ID {
			t.Errorf("id = %v, want %v", result.Data[0].ID, doc.ID)
		}
	})

	t.Run("session id is not serialized", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, _ documents.Filters) (*pagination.PageResult[documents.Document], error) {
				result := pagination.NewPageResult([]documents.Document{doc}, 1, 1, 20)
				return &result, nil
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents", nil))

		if strings.Contains(rec.Body.String(), testSession) {
			t.Errorf("body leaks session id: %s", rec.Body.String())
		}
	})

	t.Run("missing session returns 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(&mockSystem{}).ServeHTTP(rec, httptest.NewRequest("GET", "/documents", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	doc := sampleDoc()

	t.Run("returns owned document", func(t *testing.T) {
		sys := &mockSystem{findFn: findSample(doc)}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents/"+doc.ID.String(), nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got documents.Document
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != doc.ID {
			t.Errorf("id = %v, want %v", got.ID, doc.ID)
		}
	})

	t.Run("other session returns 404", func(t *testing.T) {
		foreign := doc
		foreign.SessionID = "someone-else"
		sys := &mockSystem{findFn: findSample(foreign)}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents/"+doc.ID.String(), nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		rec := serve(setupMux(&mockSystem{}), httptest.NewRequest("GET", "/documents/not-a-uuid", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{findFn: findSample(doc)}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents/"+uuid.New().String(), nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDownload(t *testing.T) {
	doc := sampleDoc()

	t.Run("streams original file", func(t *testing.T) {
		sys := &mockSystem{
			findFn: findSample(doc),
			openFn: func(_ context.Context, _ uuid.UUID) (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("%PDF-1.4 ok")), nil
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/download", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
			t.Errorf("content type = %q, want application/pdf", got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
			t.Errorf("disposition = %q", got)
		}
		if rec.Body.String() != "%PDF-1.4 ok" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("missing blob returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: findSample(doc),
			openFn: func(_ context.Context, _ uuid.UUID) (io.ReadCloser, error) {
				return nil, documents.ErrNotFound
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("GET", "/documents/"+doc.ID.String()+"/download", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	t.Run("normalizes pagination and scopes to session", func(t *testing.T) {
		var capturedPage pagination.PageRequest
		var capturedFilters documents.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, f documents.Filters) (*pagination.PageResult[documents.Document], error) {
				capturedPage = page
				capturedFilters = f
				result := pagination.NewPageResult([]documents.Document{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}

		body, _ := json.Marshal(documents.SearchRequest{
			PageRequest: pagination.PageRequest{Page: 0, PageSize: 0},
		})

		req := httptest.NewRequest("POST", "/documents/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(setupMux(sys), req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedPage.Page != 1 {
			t.Errorf("page = %d, want 1 (normalized)", capturedPage.Page)
		}
		if capturedPage.PageSize != 20 {
			t.Errorf("page_size = %d, want 20 (default)", capturedPage.PageSize)
		}
		if capturedFilters.SessionID == nil || *capturedFilters.SessionID != testSession {
			t.Errorf("session filter = %v, want %s", capturedFilters.SessionID, testSession)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/documents/search", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(setupMux(&mockSystem{}), req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerUpload(t *testing.T) {
	doc := sampleDoc()

	t.Run("creates document from pdf", func(t *testing.T) {
		var captured documents.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
				captured = cmd
				return &doc, nil
			},
		}

		body, contentType := createMultipartForm(t, "report.pdf", newTestPDF(t, "Hello World"))
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := serve(setupMux(sys), req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if captured.Filename != "report.pdf" {
			t.Errorf("filename = %q, want report.pdf", captured.Filename)
		}
		if captured.SessionID != testSession {
			t.Errorf("session = %q, want %s", captured.SessionID, testSession)
		}
		if !strings.Contains(captured.Text, "Hello World") {
			t.Errorf("text = %q, want Hello World", captured.Text)
		}
	})

	t.Run("non pdf returns 400", func(t *testing.T) {
		body, contentType := createMultipartForm(t, "notes.pdf", []byte("just text"))
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := serve(setupMux(&mockSystem{}), req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("note", "no file")
		writer.Close()

		req := httptest.NewRequest("POST", "/documents", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := serve(setupMux(&mockSystem{}), req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("oversized body returns 413", func(t *testing.T) {
		sys := &mockSystem{}
		mux := http.NewServeMux()
		routes.Register(mux, sys.Handler(64).Routes())

		body, contentType := createMultipartForm(t, "big.pdf", bytes.Repeat([]byte("x"), 4096))
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := serve(mux, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("system create error maps status", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ documents.CreateCommand) (*documents.Document, error) {
				return nil, documents.ErrDuplicate
			},
		}

		body, contentType := createMultipartForm(t, "report.pdf", newTestPDF(t, "Hello"))
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := serve(setupMux(sys), req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	doc := sampleDoc()

	t.Run("deletes owned document", func(t *testing.T) {
		var capturedID uuid.UUID
		sys := &mockSystem{
			findFn: findSample(doc),
			deleteFn: func(_ context.Context, id uuid.UUID) error {
				capturedID = id
				return nil
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("DELETE", "/documents/"+doc.ID.String(), nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if capturedID != doc.ID {
			t.Errorf("id = %v, want %v", capturedID, doc.ID)
		}
	})

	t.Run("other session is not deleted", func(t *testing.T) {
		foreign := doc
		foreign.SessionID = "someone-else"
		deleted := false
		sys := &mockSystem{
			findFn: findSample(foreign),
			deleteFn: func(_ context.Context, _ uuid.UUID) error {
				deleted = true
				return nil
			},
		}

		rec := serve(setupMux(sys), httptest.NewRequest("DELETE", "/documents/"+doc.ID.String(), nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if deleted {
			t.Error("foreign document was deleted")
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		rec := serve(setupMux(&mockSystem{}), httptest.NewRequest("DELETE", "/documents/not-a-uuid", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerRoutes(t *testing.T) {
	group := (&mockSystem{}).Handler(1024).Routes()

	if group.Prefix != "/documents" {
		t.Errorf("prefix = %q, want /documents", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", ""},
		{"GET", "/{id}"},
		{"GET", "/{id}/download"},
		{"POST", ""},
		{"POST", "/search"},
		{"DELETE", "/{id}"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
		if r.OpenAPI == nil {
			t.Errorf("route[%d] has no OpenAPI operation", i)
		}
	}
}

func createMultipartForm(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)

	writer.Close()
	return &buf, writer.FormDataContentType()
}
