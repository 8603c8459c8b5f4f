// Package tui provides the terminal chat screen and settings menu for bookchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/bookchat/internal/errors"
	"github.com/diogo/bookchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder  lipgloss.Color
	colorUser    lipgloss.Color
	colorBot     lipgloss.Color
	colorAccent  lipgloss.Color
	colorWarning lipgloss.Color
	colorError   lipgloss.Color
	colorText    lipgloss.Color
	colorTextDim lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style

	userBubbleStyle lipgloss.Style
	userLabelStyle  lipgloss.Style
	botBubbleStyle  lipgloss.Style
	botLabelStyle   lipgloss.Style

	inputPanelStyle lipgloss.Style
	loadingStyle    lipgloss.Style
	pendingStyle    lipgloss.Style
	noticeStyle     lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle        lipgloss.Style
	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style

	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configStatusOkStyle     lipgloss.Style
	configFeedbackStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles from the active TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorUser = theme.UserBubble
	colorBot = theme.BotBubble
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// User bubbles sit on the right, bot bubbles on the left
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUser).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(6)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginLeft(6)

	botBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBot).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(6)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(colorBot).
		Bold(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorBot).
		Italic(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true).
		Align(lipgloss.Center)

	configHeaderStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorBot).
		Bold(true)

	configMenuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configMenuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configEnabledStyle = lipgloss.NewStyle().
		Foreground(colorBot)

	configDisabledStyle = lipgloss.NewStyle().
		Foreground(colorError)

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	configStatusOkStyle = lipgloss.NewStyle().
		Foreground(colorBot)

	configFeedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true).
		MarginTop(1)

	configStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		MarginTop(1).
		Align(lipgloss.Center)
}

// ErrorHint suggests a fix for common query failures
func ErrorHint(err error) string {
	switch {
	case apierrors.IsTimeoutError(err):
		return "The assistant took too long. Try again or raise timeout_seconds"
	case apierrors.IsNetworkError(err):
		return "Is the book assistant running? Check the endpoint with 'bookchat config show'"
	case apierrors.GetHTTPStatus(err) >= 500:
		return "The assistant failed while answering. Check its logs"
	case apierrors.IsParseError(err):
		return "The assistant replied with something other than {\"response\": ...}"
	}
	return ""
}

// FormatError returns a styled error message with details from structured errors.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else if hint := ErrorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}
