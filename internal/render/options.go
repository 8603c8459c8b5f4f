// Package render turns bot replies into terminal or HTML output.
package render

// Options configures the terminal markdown renderer.
// Options is comparable and doubles as the renderer pool key.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

func (o Options) WithTableWrap(enabled bool) Options {
	o.TableWrap = enabled
	return o
}

func (o Options) WithInlineTableLinks(enabled bool) Options {
	o.InlineTableLinks = enabled
	return o
}
