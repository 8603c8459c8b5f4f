package render

import (
	"strings"
	"sync"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("expected EnableEmoji=true")
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle(StyleLight).
		WithEmoji(false).
		WithPreserveNewLines(false).
		WithTableWrap(false).
		WithInlineTableLinks(true)

	want := Options{
		Width:            100,
		Style:            StyleLight,
		EnableEmoji:      false,
		PreserveNewLines: false,
		TableWrap:        false,
		InlineTableLinks: true,
	}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"bold", "**Dune** by Frank Herbert", []string{"Dune", "Frank Herbert"}},
		{"heading", "# Results", []string{"Results"}},
		{"list", "- Dune\n- Emma", []string{"Dune", "Emma"}},
		{"code", "```\nisbn 978\n```", []string{"isbn 978"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.input, DefaultOptions().WithStyle(StyleNoTTY))
			if err != nil {
				t.Fatalf("Markdown() error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q: %q", want, out)
				}
			}
		})
	}
}

func TestMarkdown_Wraps(t *testing.T) {
	long := strings.Repeat("word ", 40)
	out, err := Markdown(long, DefaultOptions().WithWidth(30))
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Error("expected wrapped output")
	}
}

func TestMarkdown_UnknownStyleFile(t *testing.T) {
	ClearCache()
	defer ClearCache()

	_, err := Markdown("hi", DefaultOptions().WithStyle("/nonexistent/style.json"))
	if err == nil {
		t.Error("expected error for missing style file")
	}
}

func TestPool(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	r1, err := globalPool.get(opts)
	if err != nil || r1 == nil {
		t.Fatalf("get() = %v, %v", r1, err)
	}
	globalPool.put(opts, r1)

	if _, err := globalPool.get(opts.WithWidth(60)); err != nil {
		t.Fatalf("get() error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}

	globalPool.put(opts, nil)
	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() after clear = %d, want 0", CacheSize())
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	opts := DefaultOptions().WithStyle(StyleNoTTY)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**bold** and _italic_", opts); err != nil {
				t.Errorf("Markdown() error: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestTerminalRenderer(t *testing.T) {
	r := NewTerminalRenderer(DefaultOptions().WithStyle(StyleNoTTY))

	out, err := r.Render("The **Hobbit**")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Hobbit") {
		t.Errorf("output missing text: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newlines should be trimmed")
	}

	r.SetWidth(42)
	if r.Options().Width != 42 {
		t.Errorf("Width = %d, want 42", r.Options().Width)
	}
	r.SetWidth(0)
	if r.Options().Width != 42 {
		t.Error("non-positive width should be ignored")
	}
}

func TestPlainRenderer(t *testing.T) {
	out, err := PlainRenderer{}.Render("**raw**")
	if err != nil || out != "**raw**" {
		t.Errorf("Render() = %q, %v", out, err)
	}
}
