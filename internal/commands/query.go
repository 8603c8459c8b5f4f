package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	apierrors "github.com/diogo/bookchat/internal/errors"
	"github.com/diogo/bookchat/internal/models"
	"github.com/diogo/bookchat/internal/render"
	"github.com/diogo/bookchat/internal/tui"
	"github.com/diogo/bookchat/internal/widget"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorBot      = lipgloss.Color("#bb9af7")
)

// Styles matching the chat TUI
var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorBot).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBot).
			Foreground(colorText).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing on out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// replyView is the widget View of a one-shot query. It keeps the bot
// reply so the command can decide where it goes.
type replyView struct {
	reply *models.Message
}

func (v *replyView) Append(msg models.Message) {
	if msg.Role == models.RoleBot {
		v.reply = &msg
	}
}

func (v *replyView) ScrollToBottom() {}

// terminalWidth returns the stdout width, or 0 when unknown
func (a *cli) terminalWidth() int {
	if a.deps.TerminalWidth == nil {
		return 0
	}
	return a.deps.TerminalWidth()
}

// bubbleWidths returns the reply bubble width and the markdown width inside it
func bubbleWidths(termWidth int) (int, int) {
	if termWidth <= 0 {
		termWidth = 80
	}
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	return bubbleWidth, bubbleWidth - 4
}

// queryRenderer picks the reply renderer for the output mode
func (a *cli) queryRenderer(decorated bool, contentWidth int) widget.Renderer {
	switch {
	case a.flags.html:
		return render.NewHTMLRenderer(render.HTMLOptions{Sanitize: a.cfg.Markdown.SanitizeHTML})
	case decorated:
		return render.NewTerminalRenderer(render.OptionsFromConfig(a.cfg.Markdown).WithWidth(contentWidth))
	default:
		return render.PlainRenderer{}
	}
}

// runQuery sends a single query through the chat widget and outputs the reply.
// Without a terminal, or with --raw or --html, only the reply text is printed.
func (a *cli) runQuery(ctx context.Context, input string) error {
	decorated := a.deps.Interactive && !a.flags.raw && !a.flags.html
	bubbleWidth, contentWidth := bubbleWidths(a.terminalWidth())

	client, err := a.deps.NewClient(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	order, err := widget.ParseOrder(a.cfg.Order)
	if err != nil {
		return err
	}

	var failure *widget.ErrorEvent
	view := &replyView{}
	w, err := widget.New(client, view,
		widget.WithOrder(order),
		widget.WithRenderer(a.queryRenderer(decorated, contentWidth)),
		widget.WithLogger(a.logger),
		widget.WithErrorHandler(func(ev widget.ErrorEvent) {
			failure = &ev
		}),
	)
	if err != nil {
		return err
	}

	req, ok := w.HandleSubmit(widget.NewTextField(input))
	if !ok {
		return apierrors.ErrEmptyQuery
	}

	if a.cfg.Verbose && decorated {
		fmt.Fprintf(a.deps.Stderr, "[verbose] Endpoint: %s\n", client.Endpoint())
		fmt.Fprintf(a.deps.Stderr, "[verbose] Query: %s\n", req.Query)
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(a.deps.Stderr, "Asking the book assistant")
		spin.start()
	}

	startTime := time.Now()
	result := w.Fetch(ctx, req)
	requestDuration := time.Since(startTime)

	if decorated {
		if result.Err != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	w.Deliver(result)

	if failure != nil {
		if decorated {
			fmt.Fprintln(a.deps.Stderr, formatErrorMessage(failure.Err, "Query failed"))
			return reportedError{err: *failure}
		}
		return *failure
	}
	if view.reply == nil {
		return fmt.Errorf("query %d produced no reply", req.ID)
	}
	reply := *view.reply

	if a.cfg.Verbose && decorated {
		fmt.Fprintf(a.deps.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
	}

	if a.cfg.CopyToClipboard {
		a.copyReply(reply.Text, decorated)
	}

	if a.flags.output != "" {
		content := reply.Text
		if a.flags.html {
			content = reply.Rendered
		}
		if err := os.WriteFile(a.flags.output, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", a.flags.output),
			)
			fmt.Fprintln(a.deps.Stderr, successMsg)
		}
		return nil
	}

	if !decorated {
		out := reply.Display()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		fmt.Fprint(a.deps.Stdout, out)
		return nil
	}

	label := botLabelStyle.Render(models.RoleBot.Glyph() + " " + models.RoleBot.Label())
	fmt.Fprintln(a.deps.Stdout, label)
	fmt.Fprintln(a.deps.Stdout, botBubbleStyle.Width(bubbleWidth).Render(reply.Display()))
	return nil
}

// copyReply puts the markdown reply on the clipboard. Failures only warn.
func (a *cli) copyReply(text string, decorated bool) {
	if a.deps.CopyText == nil {
		return
	}
	if err := a.deps.CopyText(text); err != nil {
		a.logger.Warn("clipboard copy failed", zap.Error(err))
		if decorated {
			warnMsg := lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(a.deps.Stderr, warnMsg)
		}
		return
	}
	if decorated {
		clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
		fmt.Fprintln(a.deps.Stderr, clipMsg)
	}
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorWarning)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// The reply body usually says more than any hint
	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else if hint := tui.ErrorHint(err); hint != "" {
		sb.WriteString(dimStyle.Render("\n  Hint: " + hint))
	}

	return sb.String()
}
