package render

import (
	"strings"
	"sync"
)

// Markdown renders markdown content for terminal display using a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// TerminalRenderer renders replies for the terminal. The wrap width can
// change while the chat is open.
type TerminalRenderer struct {
	mu   sync.RWMutex
	opts Options
}

// NewTerminalRenderer creates a TerminalRenderer with the given options.
func NewTerminalRenderer(opts Options) *TerminalRenderer {
	return &TerminalRenderer{opts: opts}
}

// Render converts markdown into styled terminal text.
func (r *TerminalRenderer) Render(md string) (string, error) {
	out, err := Markdown(md, r.Options())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// SetWidth changes the wrap width used by later renders.
func (r *TerminalRenderer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	r.mu.Lock()
	r.opts.Width = width
	r.mu.Unlock()
}

// Options returns the current options.
func (r *TerminalRenderer) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// PlainRenderer passes markdown through untouched (--raw).
type PlainRenderer struct{}

func (PlainRenderer) Render(md string) (string, error) {
	return md, nil
}
