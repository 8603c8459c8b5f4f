package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererPool hands out glamour renderers per Options value.
// glamour.TermRenderer is not safe for concurrent Render calls, so each
// caller takes its own renderer and returns it afterwards.
type rendererPool struct {
	mu    sync.RWMutex
	pools map[Options]*sync.Pool
}

var globalPool = &rendererPool{
	pools: make(map[Options]*sync.Pool),
}

func (p *rendererPool) getPool(opts Options) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[opts]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[opts]; ok {
		return pool
	}

	pool = &sync.Pool{
		New: func() interface{} {
			renderer, err := createRenderer(opts)
			if err != nil {
				return nil
			}
			return renderer
		},
	}
	p.pools[opts] = pool
	return pool
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	renderer := p.getPool(opts).Get()
	if renderer == nil {
		// New failed; surface the error from a direct attempt
		return createRenderer(opts)
	}
	return renderer.(*glamour.TermRenderer), nil
}

func (p *rendererPool) put(opts Options, renderer *glamour.TermRenderer) {
	if renderer == nil {
		return
	}
	p.getPool(opts).Put(renderer)
}

// createRenderer builds a TermRenderer. Built-in style names go through
// WithStandardStyle; anything else is read as a style file.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}

	switch {
	case opts.Style == "" || opts.Style == StyleAuto:
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	case IsBuiltinStyle(opts.Style):
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Style))
	default:
		rendererOpts = append(rendererOpts, glamour.WithStylePath(opts.Style))
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops every pooled renderer (useful for testing).
func ClearCache() {
	globalPool.mu.Lock()
	globalPool.pools = make(map[Options]*sync.Pool)
	globalPool.mu.Unlock()
}

// CacheSize returns the number of distinct option sets pooled.
func CacheSize() int {
	globalPool.mu.RLock()
	defer globalPool.mu.RUnlock()
	return len(globalPool.pools)
}
