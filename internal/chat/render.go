// ABOUTME: Markdown rendering of chat message content
// ABOUTME: goldmark converts, bluemonday strips anything unsafe from the result

package chat

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// Render converts markdown content into sanitized HTML.
func Render(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
