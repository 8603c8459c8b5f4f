package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/bookchat/internal/config"
	"github.com/diogo/bookchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewOrderSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuOrder = iota
	menuTheme
	menuTUITheme
	menuCopyToClipboard
	menuVerbose
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// option is one entry of a selection sub-menu
type option struct {
	name        string
	description string
}

// ConfigModel represents the settings menu state
type ConfigModel struct {
	config     config.Config
	configPath string
	logPath    string
	save       func(config.Config) error

	view    configView
	cursor  int
	cursors map[configView]int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings menu for the stored configuration
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return newConfigModel(cfg, config.SaveConfig)
}

func newConfigModel(cfg config.Config, save func(config.Config) error) ConfigModel {
	configPath, _ := config.GetConfigPath()
	logPath, _ := config.GetLogPath(cfg)

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	m := ConfigModel{
		config:          cfg,
		configPath:      configPath,
		logPath:         logPath,
		save:            save,
		view:            viewMain,
		cursors:         make(map[configView]int),
		feedbackTimeout: 2 * time.Second,
	}

	for _, v := range []configView{viewOrderSelect, viewThemeSelect, viewTUIThemeSelect} {
		current := m.currentValue(v)
		for i, opt := range m.options(v) {
			if opt.name == current {
				m.cursors[v] = i
				break
			}
		}
	}

	return m
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// options lists the choices of a selection view
func (m ConfigModel) options(v configView) []option {
	var opts []option
	switch v {
	case viewOrderSelect:
		descriptions := map[string]string{
			"arrival":    "Show replies as they arrive",
			"submission": "Show replies in the order questions were asked",
			"latest":     "Drop replies older than the newest shown",
		}
		for _, name := range config.AvailableOrders() {
			opts = append(opts, option{name, descriptions[name]})
		}
	case viewThemeSelect:
		for _, t := range render.AvailableThemes() {
			opts = append(opts, option{t.Name, t.Description})
		}
	case viewTUIThemeSelect:
		for _, t := range render.AvailableTUIThemes() {
			opts = append(opts, option{t.Name, t.Description})
		}
	}
	return opts
}

func (m ConfigModel) currentValue(v configView) string {
	switch v {
	case viewOrderSelect:
		return m.config.Order
	case viewThemeSelect:
		if m.config.Markdown.Style == "" {
			return render.StyleDark
		}
		return m.config.Markdown.Style
	case viewTUIThemeSelect:
		if m.config.TUITheme == "" {
			return render.TokyoNightTheme.Name
		}
		return m.config.TUITheme
	}
	return ""
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the cursor of the current view, wrapping around
func (m *ConfigModel) move(delta int) {
	if m.view == viewMain {
		m.cursor = (m.cursor + delta + menuItemCount) % menuItemCount
		return
	}
	n := len(m.options(m.view))
	if n == 0 {
		return
	}
	m.cursors[m.view] = (m.cursors[m.view] + delta + n) % n
}

// persist saves the config and reports the outcome
func (m *ConfigModel) persist(success string) tea.Cmd {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	return clearFeedback(m.feedbackTimeout)
}

func enabled(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view != viewMain {
		selected := m.options(m.view)[m.cursors[m.view]].name
		var msg string
		switch m.view {
		case viewOrderSelect:
			m.config.Order = selected
			msg = "Reply order set to " + selected
		case viewThemeSelect:
			m.config.Markdown.Style = selected
			msg = "Markdown theme set to " + selected
		case viewTUIThemeSelect:
			m.config.TUITheme = selected
			render.SetTUITheme(selected)
			UpdateTheme()
			msg = "TUI theme set to " + selected
		}
		m.view = viewMain
		return m, m.persist(msg)
	}

	switch m.cursor {
	case menuOrder:
		m.view = viewOrderSelect
	case menuTheme:
		m.view = viewThemeSelect
	case menuTUITheme:
		m.view = viewTUIThemeSelect
	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		return m, m.persist("Copy to clipboard " + enabled(m.config.CopyToClipboard))
	case menuVerbose:
		m.config.Verbose = !m.config.Verbose
		return m, m.persist("Verbose logging " + enabled(m.config.Verbose))
	case menuExit:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, configHeaderStyle.Width(contentWidth).Render(
		configTitleStyle.Render("📚 Book Chat Settings"),
	))

	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config:   %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   Log:      %s", configPathStyle.Render(m.logPath)),
		fmt.Sprintf("   Endpoint: %s", configPathStyle.Render(m.config.Endpoint)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	var settings string
	if m.view == viewMain {
		settings = m.renderMainMenu()
	} else {
		settings = m.renderSelect(m.view)
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one row with the cursor marker
func menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return fmt.Sprintf("%s%-20s%s", cursor, style.Render(label), value)
}

func (m ConfigModel) renderMainMenu() string {
	rows := []struct {
		label string
		value string
	}{
		{"Reply Order", configValueStyle.Render(m.currentValue(viewOrderSelect))},
		{"Markdown Theme", configValueStyle.Render(m.currentValue(viewThemeSelect))},
		{"TUI Theme", configValueStyle.Render(m.currentValue(viewTUIThemeSelect))},
		{"Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
		{"Verbose Logging", m.renderBoolValue(m.config.Verbose)},
	}

	items := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, row := range rows {
		items = append(items, menuLine(m.cursor == i, row.label, row.value))
	}
	items = append(items, "", menuLine(m.cursor == menuExit, "Exit", ""))

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderSelect(v configView) string {
	titles := map[configView]string{
		viewOrderSelect:    "↕ Select Reply Order",
		viewThemeSelect:    "🎨 Select Markdown Theme",
		viewTUIThemeSelect: "🎨 Select TUI Theme",
	}

	items := []string{configSectionTitleStyle.Render(titles[v]), ""}
	current := m.currentValue(v)
	for i, opt := range m.options(v) {
		line := menuLine(m.cursors[v] == i, fmt.Sprintf("%s - %s", opt.name, opt.description), "")
		if opt.name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	items := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" "+back),
	}
	bar := strings.Join(items, "  │  ")
	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunConfig starts the settings menu
func RunConfig() error {
	p := tea.NewProgram(
		NewConfigModel(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
