package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/bookchat/internal/models"
	"github.com/diogo/bookchat/internal/render"
	"github.com/diogo/bookchat/internal/widget"
)

// resultMsg carries a settled request back into Update
type resultMsg struct {
	result widget.Result
}

// ChatOptions configures the chat screen
type ChatOptions struct {
	Endpoint string
	Order    widget.Order
	Render   render.Options
	Logger   *zap.Logger
}

// errorLine holds the latest failure. It is shared by pointer with the
// widget's error handler.
type errorLine struct {
	event *widget.ErrorEvent
}

func (e *errorLine) set(ev widget.ErrorEvent) {
	e.event = &ev
}

func (e *errorLine) clear() {
	e.event = nil
}

// Model represents the chat screen state
type Model struct {
	ctx        context.Context
	widget     *widget.Widget
	renderer   *render.TerminalRenderer
	transcript *transcript
	errs       *errorLine
	input      textinput.Model
	endpoint   string

	// copyText writes to the system clipboard
	copyText func(string) error
	notice   string

	ready  bool
	width  int
	height int
}

// NewChatModel creates a chat model bound to querier
func NewChatModel(ctx context.Context, querier widget.Querier, opts ChatOptions) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Ask about a book..."
	ti.Prompt = "› "
	ti.CharLimit = 1000
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorUser)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.Focus()

	tr := newTranscript(80, 20)
	errs := &errorLine{}
	renderer := render.NewTerminalRenderer(opts.Render)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := widget.New(querier, tr,
		widget.WithOrder(opts.Order),
		widget.WithRenderer(renderer),
		widget.WithLogger(logger),
		widget.WithErrorHandler(errs.set),
	)
	if err != nil {
		return Model{}, err
	}

	return Model{
		ctx:        ctx,
		widget:     w,
		renderer:   renderer,
		transcript: tr,
		errs:       errs,
		input:      ti,
		endpoint:   opts.Endpoint,
		copyText:   clipboard.WriteAll,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// fetch runs the request off the event loop
func (m Model) fetch(req models.QueryRequest) tea.Cmd {
	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		return resultMsg{result: w.Fetch(ctx, req)}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.notice = ""
			m.errs.clear()
			// No in-flight guard: each Enter sends independently
			if req, ok := m.widget.HandleSubmit(&m.input); ok {
				return m, m.fetch(req)
			}
			return m, nil

		case "ctrl+y":
			m.copyLastReply()
			return m, nil
		}

	case resultMsg:
		m.widget.Deliver(msg.result)
		return m, nil
	}

	// Typed letters belong to the input; only scroll keys reach the viewport
	if key, ok := msg.(tea.KeyMsg); ok {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if !scrollKeys[key.String()] {
			return m, tea.Batch(cmds...)
		}
	}

	m.transcript.viewport, cmd = m.transcript.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

var scrollKeys = map[string]bool{
	"up":     true,
	"down":   true,
	"pgup":   true,
	"pgdown": true,
	"ctrl+u": true,
	"ctrl+d": true,
}

func (m *Model) layout() {
	headerHeight := 3
	inputHeight := 3
	statusHeight := 1
	errorHeight := 3

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - errorHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.contentWidth()

	m.transcript.resize(contentWidth-4, vpHeight)
	m.input.Width = contentWidth - 6
	m.renderer.SetWidth(m.transcript.bubbleWidth() - 4)
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) copyLastReply() {
	last, ok := m.transcript.LastBotMessage()
	if !ok {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.copyText(last.Text); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.notice = "Copied last reply to clipboard"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.contentWidth()
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("📚 Book Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.endpoint),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("order: "+m.widget.Order().String()),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	var body string
	if len(m.transcript.Messages()) == 0 {
		body = m.renderWelcome()
	} else {
		body = m.transcript.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.transcript.viewport.Height).
		Render(body))

	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(m.input.View()))
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.errs.event != nil {
		sections = append(sections, FormatError(m.errs.event.Err))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.transcript.viewport.Width
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Width(width).Render("📚 Welcome to Book Chat"),
		"",
		welcomeStyle.Width(width).Render("Ask for a title, an author or a recommendation below"),
	)

	topPadding := (m.transcript.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy reply"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, "  │  ")

	if n := m.widget.InFlight(); n > 0 {
		bar += "  │  " + pendingStyle.Render(fmt.Sprintf("%d pending", n))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, querier widget.Querier, opts ChatOptions) error {
	m, err := NewChatModel(ctx, querier, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}
