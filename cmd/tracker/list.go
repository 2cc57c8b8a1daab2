package main

import (
	"context"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List projects from the server. Offline, the last fetched list is shown
with queued edits applied; unsynced projects are marked with *.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			out := cmd.OutOrStdout()
			if !s.connect(ctx) {
				renderBanner(out)
			}
			renderProjects(out, s.tracker.Projects())
			return nil
		})
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users that projects can be assigned to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			users, err := s.tracker.Users(ctx)
			if err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd, usersCmd)
}
