package formatting

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in the source is omitted by the default renderer.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Markdown renders CommonMark with GitHub extensions to HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
