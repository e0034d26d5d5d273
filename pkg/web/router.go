// Package web serves small server-rendered pages from embedded templates.
package web

import (
	"bytes"
	"html/template"
	"net/http"
)

// Router is a ServeMux that hands unmatched requests to an optional fallback.
type Router struct {
	mux      *http.ServeMux
	fallback http.Handler
}

// NewRouter creates a Router with no fallback.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetFallback sets the handler for requests no pattern matches.
func (r *Router) SetFallback(handler http.Handler) {
	r.fallback = handler
}

func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.fallback != nil {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.fallback.ServeHTTP(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}

// Page renders tmpl with data once and serves the result as HTML.
// A template that fails to execute is reported at construction.
func Page(tmpl *template.Template, data any) (http.HandlerFunc, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	body := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}, nil
}

// Redirect returns a handler that sends every request to target.
func Redirect(target string) http.Handler {
	return http.RedirectHandler(target, http.StatusFound)
}
