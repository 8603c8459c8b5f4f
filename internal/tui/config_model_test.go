package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/bookchat/internal/config"
	"github.com/diogo/bookchat/internal/render"
)

// recordingSaver captures saved configurations
type recordingSaver struct {
	saved []config.Config
	err   error
}

func (r *recordingSaver) save(cfg config.Config) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, cfg)
	return nil
}

func newTestConfigModel(t *testing.T, cfg config.Config) (ConfigModel, *recordingSaver) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		render.SetTUITheme(render.TokyoNightTheme.Name)
		UpdateTheme()
	})

	saver := &recordingSaver{}
	m := newConfigModel(cfg, saver.save)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(ConfigModel), saver
}

func key(t *testing.T, m ConfigModel, s string) (ConfigModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	updated, cmd := m.Update(msg)
	return updated.(ConfigModel), cmd
}

func TestNewConfigModel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m := NewConfigModel()

	if m.view != viewMain {
		t.Errorf("Expected view to be viewMain, got %v", m.view)
	}
	if m.cursor != 0 {
		t.Errorf("Expected cursor to be 0, got %d", m.cursor)
	}
	if !strings.HasSuffix(m.configPath, "config.json") {
		t.Errorf("configPath = %s", m.configPath)
	}
	if !strings.HasSuffix(m.logPath, "bookchat.log") {
		t.Errorf("logPath = %s", m.logPath)
	}
	if m.feedbackTimeout != 2*time.Second {
		t.Errorf("Expected feedbackTimeout to be 2s, got %v", m.feedbackTimeout)
	}
	if m.Init() != nil {
		t.Error("Init should return nil command")
	}
}

func TestNewConfigModel_CursorsFollowConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Order = "latest"
	cfg.TUITheme = "nord"

	m, _ := newTestConfigModel(t, cfg)

	if got := m.options(viewOrderSelect)[m.cursors[viewOrderSelect]].name; got != "latest" {
		t.Errorf("order cursor on %s, want latest", got)
	}
	if got := m.options(viewTUIThemeSelect)[m.cursors[viewTUIThemeSelect]].name; got != "nord" {
		t.Errorf("TUI theme cursor on %s, want nord", got)
	}
	if render.GetTUITheme().Name != "nord" {
		t.Error("configured TUI theme should be applied")
	}
}

func TestConfigModel_Navigation(t *testing.T) {
	m, _ := newTestConfigModel(t, config.DefaultConfig())

	m, _ = key(t, m, "up")
	if m.cursor != menuItemCount-1 {
		t.Errorf("cursor should wrap to %d, got %d", menuItemCount-1, m.cursor)
	}
	m, _ = key(t, m, "down")
	if m.cursor != 0 {
		t.Errorf("cursor should wrap to 0, got %d", m.cursor)
	}
	m, _ = key(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("j should move down, got %d", m.cursor)
	}
}

func TestConfigModel_SelectOrder(t *testing.T) {
	m, saver := newTestConfigModel(t, config.DefaultConfig())

	m, _ = key(t, m, "enter")
	if m.view != viewOrderSelect {
		t.Fatalf("view = %v, want order select", m.view)
	}

	m, _ = key(t, m, "down")
	m, cmd := key(t, m, "enter")

	if m.view != viewMain {
		t.Error("selection should return to the main view")
	}
	if cmd == nil {
		t.Error("expected a feedback clear command")
	}
	if len(saver.saved) != 1 || saver.saved[0].Order != "submission" {
		t.Errorf("saved = %+v", saver.saved)
	}
	if !strings.Contains(m.feedback, "submission") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_SelectThemes(t *testing.T) {
	m, saver := newTestConfigModel(t, config.DefaultConfig())

	m.cursor = menuTheme
	m, _ = key(t, m, "enter")
	if m.view != viewThemeSelect {
		t.Fatalf("view = %v, want theme select", m.view)
	}
	m, _ = key(t, m, "down")
	want := render.ThemeNames()[1]
	m, _ = key(t, m, "enter")
	if m.config.Markdown.Style != want {
		t.Errorf("Markdown.Style = %s, want %s", m.config.Markdown.Style, want)
	}

	m.cursor = menuTUITheme
	m, _ = key(t, m, "enter")
	m, _ = key(t, m, "down")
	m, _ = key(t, m, "enter")
	if m.config.TUITheme != render.TUIThemeNames()[1] {
		t.Errorf("TUITheme = %s", m.config.TUITheme)
	}
	if render.GetTUITheme().Name != m.config.TUITheme {
		t.Error("TUI theme should apply immediately")
	}
	if len(saver.saved) != 2 {
		t.Errorf("expected 2 saves, got %d", len(saver.saved))
	}
}

func TestConfigModel_Toggles(t *testing.T) {
	m, saver := newTestConfigModel(t, config.DefaultConfig())

	m.cursor = menuCopyToClipboard
	m, _ = key(t, m, "enter")
	if !m.config.CopyToClipboard {
		t.Error("CopyToClipboard should toggle on")
	}
	if m.feedback != "Copy to clipboard enabled" {
		t.Errorf("feedback = %q", m.feedback)
	}

	m.cursor = menuVerbose
	m, _ = key(t, m, " ")
	if !m.config.Verbose {
		t.Error("Verbose should toggle on")
	}

	if len(saver.saved) != 2 {
		t.Errorf("expected 2 saves, got %d", len(saver.saved))
	}
}

func TestConfigModel_SaveError(t *testing.T) {
	m, saver := newTestConfigModel(t, config.DefaultConfig())
	saver.err = errors.New("disk full")

	m.cursor = menuVerbose
	m, _ = key(t, m, "enter")
	if !strings.Contains(m.feedback, "disk full") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_FeedbackClear(t *testing.T) {
	m, _ := newTestConfigModel(t, config.DefaultConfig())
	m.feedback = "saved"

	updated, _ := m.Update(feedbackClearMsg{})
	if updated.(ConfigModel).feedback != "" {
		t.Error("feedback should clear")
	}
	if clearFeedback(time.Millisecond) == nil {
		t.Error("clearFeedback should return a command")
	}
}

func TestConfigModel_EscAndExit(t *testing.T) {
	m, _ := newTestConfigModel(t, config.DefaultConfig())

	m, _ = key(t, m, "enter")
	m, cmd := key(t, m, "esc")
	if m.view != viewMain || cmd != nil {
		t.Error("esc in a sub-menu should go back")
	}

	_, cmd = key(t, m, "esc")
	if cmd == nil {
		t.Fatal("esc on the main view should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}

	m.cursor = menuExit
	_, cmd = key(t, m, "enter")
	if cmd == nil {
		t.Error("Exit should quit")
	}
}

func TestConfigModel_View(t *testing.T) {
	m, _ := newTestConfigModel(t, config.DefaultConfig())

	view := m.View()
	for _, want := range []string{"Settings", "Reply Order", "arrival", "Markdown Theme", "TUI Theme", "Copy to Clipboard", "Endpoint"} {
		if !strings.Contains(view, want) {
			t.Errorf("main view missing %q", want)
		}
	}

	m, _ = key(t, m, "enter")
	view = m.View()
	if !strings.Contains(view, "Select Reply Order") || !strings.Contains(view, "(current)") {
		t.Error("order select view incomplete")
	}
	if !strings.Contains(view, "Back") {
		t.Error("sub-menu status bar should offer Back")
	}

	var unready ConfigModel
	if !strings.Contains(unready.View(), "Initializing") {
		t.Error("expected initializing view before first resize")
	}
}
