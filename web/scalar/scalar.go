// Package scalar serves the Scalar API reference for the OpenAPI document
// published by the API module.
package scalar

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/JaimeStill/chateval/pkg/module"
	"github.com/JaimeStill/chateval/pkg/web"
)

//go:embed index.html
var pageFS embed.FS

// NewModule mounts the reference page at basePath, reading the document
// from specURL. Unknown paths under basePath redirect to the page.
func NewModule(basePath, specURL, title string) (*module.Module, error) {
	tmpl, err := template.ParseFS(pageFS, "index.html")
	if err != nil {
		return nil, fmt.Errorf("parse scalar page: %w", err)
	}

	page, err := web.Page(tmpl, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render scalar page: %w", err)
	}

	router := web.NewRouter()
	router.HandleFunc("GET /{$}", page)
	router.SetFallback(web.Redirect(basePath))

	return module.New(basePath, router), nil
}
