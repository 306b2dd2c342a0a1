package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentFormat is the format a page body is submitted in.
type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
)

// ParseContentFormat defaults to HTML when raw is empty.
func ParseContentFormat(raw string) (ContentFormat, error) {
	switch ContentFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", ErrFormatInvalid
	}
}

// ContentRenderer turns submitted page bodies into sanitized HTML.
type ContentRenderer struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewContentRenderer() *ContentRenderer {
	return &ContentRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
		sanitizer: buildPageSanitizer(),
	}
}

func buildPageSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "id").Globally()
	policy.AllowElements("section", "article", "header", "footer", "figure", "figcaption")
	return policy
}

// Render converts body to HTML if needed and strips anything unsafe.
func (r *ContentRenderer) Render(body string, format ContentFormat) (string, error) {
	source := body
	if format == FormatMarkdown {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(body), &buf); err != nil {
			return "", err
		}
		source = buf.String()
	}
	return r.sanitizer.Sanitize(source), nil
}
