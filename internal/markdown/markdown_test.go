package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	p := New()

	t.Run("basic markdown", func(t *testing.T) {
		out := p.Render("some **bold** and *italic* text")
		assert.Contains(t, out, "<strong>bold</strong>")
		assert.Contains(t, out, "<em>italic</em>")
	})

	t.Run("gfm tables and strikethrough", func(t *testing.T) {
		out := p.Render("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<del>gone</del>")
	})

	t.Run("hard wraps preserve line breaks", func(t *testing.T) {
		out := p.Render("first line\nsecond line")
		assert.Contains(t, out, "<br")
	})

	t.Run("script tags are stripped", func(t *testing.T) {
		out := p.Render(`hello <script>alert("xss")</script> world`)
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "alert")
	})

	t.Run("event handler attributes are stripped", func(t *testing.T) {
		out := p.Render(`<img src="x" onerror="alert(1)">`)
		assert.NotContains(t, out, "onerror")
	})

	t.Run("links survive sanitization", func(t *testing.T) {
		out := p.Render("[docs](https://example.com/docs)")
		assert.Contains(t, out, `href="https://example.com/docs"`)
	})

	t.Run("javascript urls do not", func(t *testing.T) {
		out := p.Render(`[click](javascript:alert(1))`)
		assert.NotContains(t, out, "javascript:")
	})
}
