package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch connectivity and sync on every reconnect",
	Long: `Probe the server until interrupted. While it is unreachable the offline
banner is shown; on each reconnect queued edits are replayed and the project
list is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withSession(cmd, func(_ context.Context, s *session) error {
			out := cmd.OutOrStdout()
			s.tracker.OnStatus(func(online bool) {
				if !online {
					renderBanner(out)
					return
				}
				fmt.Fprintf(out, "%s %s\n", successStyle.Render("Back online"), mutedStyle.Render(time.Now().Format(time.Kitchen)))
				if stats, err := s.tracker.Stats(ctx); err == nil && stats.LastSync != nil {
					renderReport(out, *stats.LastSync)
				}
				renderProjects(out, s.tracker.Projects())
			})

			err := s.tracker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
