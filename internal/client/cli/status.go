package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Server reachability and local cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			// Статус показывает кэш как есть, без обновления с сервера
			if err := c.prepare(cmd.Context(), true); err != nil {
				return err
			}
			return c.runStatus(cmd.Context())
		},
	}
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()
	c.io.Printf("Server: %s\n", c.cfg.Server.URL)
	c.io.Printf("User:   %s\n", c.cfg.Server.User)

	health, err := c.server.Health(ctx)
	if err != nil {
		c.io.Println(errorStyle.Render("✗ Server unreachable: ") + err.Error())
	} else {
		line := "✓ Server " + health.Status
		if health.Version != "" {
			line += " (" + health.Version + ")"
		}
		c.io.Println(successStyle.Render(line))
	}
	c.io.Println()

	statuses, err := c.sync.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache status: %w", err)
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		refreshed := "never"
		if !st.LastRefresh.IsZero() {
			refreshed = st.LastRefresh.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{st.Name, fmt.Sprintf("%d", st.Count), refreshed})
	}
	_, _ = fmt.Fprint(c.io, RenderTable(Table{
		Title:   "Local cache",
		Headers: []string{"Collection", "Records", "Last refresh"},
		Rows:    rows,
	}))
	return nil
}
