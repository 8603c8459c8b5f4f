// Package commands provides CLI commands for bookchat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/bookchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// flagValues holds the values bound to command-line flags
type flagValues struct {
	endpoint string
	timeout  int
	order    string
	verbose  bool
	output   string
	file     string
	raw      bool
	html     bool
	version  bool
}

// cli carries the state shared by the command tree during one execution
type cli struct {
	deps   *Dependencies
	flags  flagValues
	cfg    config.Config
	logger *zap.Logger
}

// reportedError marks a failure that was already shown to the user
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &cli{deps: deps, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "bookchat [query]",
		Short: "Chat with the bookstore assistant",
		Long: `bookchat talks to the bookstore assistant running on this machine.
Each query is sent as GET <endpoint>?query=<text> and the markdown reply
is rendered in the terminal.

Examples:
  bookchat chat                          Start interactive chat
  bookchat config                        Configure settings
  bookchat "books like dune"             Send a single query
  bookchat -f question.txt               Read the query from a file
  echo "poetry for kids" | bookchat      Read the query from stdin
  bookchat "fantasy" -o reply.md         Save the reply to a file
  bookchat "fantasy" --html              Print the reply as HTML`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.version {
				fmt.Fprintf(a.deps.Stdout, "bookchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			input, ok, err := a.readInput(args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return a.runQuery(cmd.Context(), input)
		},
	}

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.endpoint, "endpoint", "", "Assistant endpoint URL (default from config)")
	pf.IntVar(&a.flags.timeout, "timeout", 0, "Per-query timeout in seconds, 0 disables it")
	pf.StringVar(&a.flags.order, "order", "", "Reply ordering: arrival, submission or latest")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Write debug diagnostics to the log")

	f := rootCmd.Flags()
	f.StringVarP(&a.flags.output, "output", "o", "", "Save reply to file")
	f.StringVarP(&a.flags.file, "file", "f", "", "Read query from file")
	f.BoolVar(&a.flags.raw, "raw", false, "Print the markdown reply without rendering")
	f.BoolVar(&a.flags.html, "html", false, "Print the reply as HTML")
	f.BoolVarP(&a.flags.version, "version", "v", false, "Show version and exit")
	rootCmd.MarkFlagsMutuallyExclusive("raw", "html")

	// Add subcommands
	rootCmd.AddCommand(a.newChatCmd())
	rootCmd.AddCommand(a.newConfigCmd())

	return rootCmd
}

// setup resolves the effective configuration and opens the log.
// Precedence is flags, then environment, then the config file.
func (a *cli) setup(cmd *cobra.Command) error {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		fmt.Fprintf(a.deps.Stderr, "Warning: %v, using defaults\n", err)
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = a.flags.endpoint
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = a.flags.timeout
	}
	if flags.Changed("order") {
		cfg.Order = a.flags.order
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.flags.verbose
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if a.deps.NewLogger != nil {
		a.logger = a.deps.NewLogger(cfg)
	}
	a.logger.Debug("configuration resolved",
		zap.String("command", cmd.Name()),
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("timeout_seconds", cfg.TimeoutSeconds),
		zap.String("order", cfg.Order),
	)
	return nil
}

// readInput picks the query from --file, the argument or piped stdin.
// It returns false when no input was given.
func (a *cli) readInput(args []string) (string, bool, error) {
	if a.flags.file != "" {
		text, err := readQueryFile(a.flags.file)
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if a.deps.StdinPiped != nil && a.deps.StdinPiped() {
		data, err := io.ReadAll(a.deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// readQueryFile loads a query file, refusing content that is not text
func readQueryFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	mtype := mimetype.Detect(data)
	if !isText(mtype) {
		return "", fmt.Errorf("%s is not a text file (detected %s)", path, mtype.String())
	}
	return string(data), nil
}

// isText reports whether m is text/plain or derives from it
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(NewDependencies()).ExecuteContext(ctx); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
