package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/client"
	"github.com/diogo/ragchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session against the configured backend.

Replies stream in as they are produced and render as markdown.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadClientConfig()
		c := client.New(cfg.BackendURL)
		if err := checkBackend(c); err != nil {
			return err
		}
		return tui.RunChat(c, cfg)
	},
}

// checkBackend pings the health endpoint before the alternate screen takes
// over, so an unreachable backend reports as a plain error instead of a
// failed first exchange.
func checkBackend(c *client.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("backend %s is not reachable: %w", c.BaseURL(), err)
	}
	return nil
}
