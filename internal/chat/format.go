package chat

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// FormatMessage renders the light markdown used in answers (bold, italics,
// inline code, line breaks) to sanitised HTML.
func FormatMessage(content string) template.HTML {
	// Parsers keep state between documents and cannot be reused.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML([]byte(content), p, r)
	return template.HTML(sanitizer.SanitizeBytes(out))
}
