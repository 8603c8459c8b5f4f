package render

import (
	"os"

	"github.com/diogo/bookchat/internal/config"
)

// StyleEnv overrides the configured markdown style.
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromConfig maps the markdown section of the configuration onto
// terminal render options. GLAMOUR_STYLE wins over the file.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()

	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}

	return opts
}
