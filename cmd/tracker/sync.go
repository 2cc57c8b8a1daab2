package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projecttracker/tracker/pkg/offline"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay queued edits now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			out := cmd.OutOrStdout()
			if err := s.api.Ping(ctx); err != nil {
				renderBanner(out)
				return fmt.Errorf("server unreachable: %w", err)
			}
			s.tracker.SetOnline(true)
			report, err := s.tracker.Sync(ctx)
			if errors.Is(err, offline.ErrSyncInProgress) {
				return err
			}
			renderReport(out, report)
			return err
		})
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show edits waiting to be synced",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			entries, err := s.tracker.Pending(ctx)
			if err != nil {
				return err
			}
			renderQueue(cmd.OutOrStdout(), entries)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and queue state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			out := cmd.OutOrStdout()
			online := s.api.Ping(ctx) == nil
			s.tracker.SetOnline(online)
			stats, err := s.tracker.Stats(ctx)
			if err != nil {
				return err
			}
			state := successStyle.Render("online")
			if !online {
				state = bannerStyle.Render("offline")
			}
			fmt.Fprintf(out, "Server:   %s (%s)\n", s.api.BaseURL, state)
			fmt.Fprintf(out, "Storage:  %s\n", backendName())
			fmt.Fprintf(out, "Pending:  %d\n", stats.Pending)
			fmt.Fprintf(out, "Cached:   %d projects\n", len(s.tracker.Projects()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, queueCmd, statusCmd)
}
