package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/bookchat/internal/api"
	"github.com/diogo/bookchat/internal/config"
	"github.com/diogo/bookchat/internal/logging"
	"github.com/diogo/bookchat/internal/tui"
	"github.com/diogo/bookchat/internal/widget"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, querier widget.Querier, opts tui.ChatOptions) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the query client for the effective configuration.
	NewClient func(cfg config.Config, logger *zap.Logger) (api.QueryClient, error)

	// LoadConfig reads the persisted configuration plus environment overrides.
	LoadConfig func() (config.Config, error)

	// NewLogger opens the diagnostic log.
	NewLogger func(cfg config.Config) *zap.Logger

	// TUI is the terminal user interface.
	TUI TUIInterface

	// CopyText writes to the system clipboard.
	CopyText func(string) error

	// TerminalWidth reports the width of stdout, or 0 when unknown.
	TerminalWidth func() int

	// StdinPiped reports whether stdin carries data rather than a terminal.
	StdinPiped func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive enables the spinner and the decorated reply bubble.
	Interactive bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, querier widget.Querier, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, querier, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// newAPIClient is the production client factory
func newAPIClient(cfg config.Config, logger *zap.Logger) (api.QueryClient, error) {
	return api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:     newAPIClient,
		LoadConfig:    config.LoadConfig,
		NewLogger:     logging.NewOrNop,
		TUI:           &DefaultTUI{},
		CopyText:      clipboard.WriteAll,
		TerminalWidth: getTerminalWidth,
		StdinPiped:    stdinPiped,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Interactive:   isStdoutTTY(),
	}
}

// getTerminalWidth returns the terminal width or 0 when stdout is not a terminal
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinPiped returns true when stdin is a pipe or a file
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
