// Package markdown renders user-authored text (thread descriptions, comment
// bodies) to sanitized HTML for API responses. Raw markdown stays in the
// store; rendering happens on the way out.
package markdown

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/techforum-dev/techforum/internal/logger"
)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	return &TextProcessor{
		md:     md,
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to HTML and strips everything the UGC policy
// does not allow. On a conversion failure the raw text is escaped instead
// so callers always get safe output.
func (p *TextProcessor) Render(text string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Error("markdown conversion failed", "error", err)
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return p.policy.Sanitize(buf.String())
}
