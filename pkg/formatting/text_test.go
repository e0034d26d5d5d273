package formatting_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/chateval/pkg/formatting"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"cut", "abcdef", 3, "abc"},
		{"multibyte kept whole", "héllo wörld", 7, "héllo w"},
		{"zero limit", "abc", 0, "abc"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.Truncate(tt.s, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis and lists",
			src:      "**Key point**\n\n- one\n- two\n",
			contains: []string{"<strong>Key point</strong>", "<li>one</li>", "<li>two</li>"},
		},
		{
			name:     "tables",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "raw html omitted",
			src:      "<script>alert(1)</script>\n\ntext",
			contains: []string{"<p>text</p>"},
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Markdown(tt.src)
			if err != nil {
				t.Fatalf("Markdown: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Markdown(%q) = %q, missing %q", tt.src, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Markdown(%q) = %q, contains %q", tt.src, got, bad)
				}
			}
		})
	}
}
