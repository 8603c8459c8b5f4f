package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/bookchat/internal/render"
	"github.com/diogo/bookchat/internal/tui"
	"github.com/diogo/bookchat/internal/widget"
)

func (a *cli) newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the book assistant.

Every question is sent on its own; the assistant keeps no conversation
context. Several questions may be pending at once and --order decides how
their replies are placed. Press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context())
		},
	}
}

func (a *cli) runChat(ctx context.Context) error {
	order, err := widget.ParseOrder(a.cfg.Order)
	if err != nil {
		return err
	}

	client, err := a.deps.NewClient(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if a.cfg.TUITheme != "" {
		if render.SetTUITheme(a.cfg.TUITheme) {
			tui.UpdateTheme()
		} else {
			a.logger.Warn("unknown TUI theme, keeping default", zap.String("theme", a.cfg.TUITheme))
		}
	}

	a.logger.Info("chat session starting",
		zap.String("endpoint", client.Endpoint()),
		zap.Stringer("order", order),
	)

	return a.deps.TUI.RunChat(ctx, client, tui.ChatOptions{
		Endpoint: client.Endpoint(),
		Order:    order,
		Render:   render.OptionsFromConfig(a.cfg.Markdown),
		Logger:   a.logger,
	})
}
