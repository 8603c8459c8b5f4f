package render

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLOptions configures markdown to HTML conversion.
type HTMLOptions struct {
	// Sanitize strips scripts, event handlers and other unsafe markup.
	Sanitize bool
}

// DefaultHTMLOptions returns the default HTML options.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{Sanitize: true}
}

var ugcPolicy = bluemonday.UGCPolicy()

// HTML converts markdown into an HTML fragment.
// A fresh parser is needed per call; gomarkdown parsers keep state.
func HTML(content string, opts HTMLOptions) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})

	out := markdown.ToHTML([]byte(content), p, renderer)
	if opts.Sanitize {
		out = ugcPolicy.SanitizeBytes(out)
	}
	return string(out)
}

// HTMLRenderer renders replies as HTML fragments (--html).
type HTMLRenderer struct {
	Options HTMLOptions
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(opts HTMLOptions) *HTMLRenderer {
	return &HTMLRenderer{Options: opts}
}

func (r *HTMLRenderer) Render(md string) (string, error) {
	return HTML(md, r.Options), nil
}
