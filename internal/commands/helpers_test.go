package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diogo/bookchat/internal/api"
	"github.com/diogo/bookchat/internal/config"
	"github.com/diogo/bookchat/internal/models"
	"github.com/diogo/bookchat/internal/render"
	"github.com/diogo/bookchat/internal/tui"
	"github.com/diogo/bookchat/internal/widget"
)

// fakeTUI records calls instead of starting bubbletea programs
type fakeTUI struct {
	chatCalls   int
	configCalls int
	querier     widget.Querier
	opts        tui.ChatOptions
	err         error
}

func (f *fakeTUI) RunChat(ctx context.Context, querier widget.Querier, opts tui.ChatOptions) error {
	f.chatCalls++
	f.querier = querier
	f.opts = opts
	return f.err
}

func (f *fakeTUI) RunConfig() error {
	f.configCalls++
	return f.err
}

// testEnv wires Dependencies to in-memory fakes
type testEnv struct {
	deps      *Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	client    *api.MockClient
	tui       *fakeTUI
	cfg       config.Config
	clientCfg config.Config
	copied    []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(render.StyleEnv, "")

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		client: &api.MockClient{
			QueryVal: &models.QueryResponse{Text: "**Dune**", Field: models.ResponseField},
		},
		tui: &fakeTUI{},
		cfg: config.DefaultConfig(),
	}

	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger *zap.Logger) (api.QueryClient, error) {
			env.clientCfg = cfg
			return env.client, nil
		},
		LoadConfig: func() (config.Config, error) {
			return env.cfg, nil
		},
		NewLogger: func(config.Config) *zap.Logger {
			return zap.NewNop()
		},
		TUI: env.tui,
		CopyText: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		TerminalWidth: func() int { return 100 },
		StdinPiped:    func() bool { return false },
		Stdin:         strings.NewReader(""),
		Stdout:        env.stdout,
		Stderr:        env.stderr,
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	// A nil slice makes cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	return cmd.Execute()
}
