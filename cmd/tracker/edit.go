package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/offline"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")
		assignee, _ := cmd.Flags().GetString("assignee")

		st, err := parseStatus(status)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			s.connect(ctx)
			p, err := s.tracker.CreateProject(ctx, model.CreateProjectInput{
				Name: name, Description: description, Status: st, AssigneeID: assignee,
			})
			if err != nil {
				return err
			}
			reportSaved(cmd, s, p)
			return nil
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a project",
	Long: `Replace a project's name, description, status and assignee. Fields
without a flag keep their current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withSession(cmd, func(ctx context.Context, s *session) error {
			s.connect(ctx)
			current, ok := findProject(s.tracker.Projects(), id)
			if !ok {
				return fmt.Errorf("project %s not found", id)
			}
			in := current.UpdateInput()
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name, _ = flags.GetString("name")
			}
			if flags.Changed("description") {
				in.Description, _ = flags.GetString("description")
			}
			if flags.Changed("assignee") {
				in.AssigneeID, _ = flags.GetString("assignee")
			}
			if flags.Changed("status") {
				raw, _ := flags.GetString("status")
				st, err := parseStatus(raw)
				if err != nil {
					return err
				}
				in.Status = st
			}

			p, err := s.tracker.UpdateProject(ctx, id, in)
			if err != nil {
				return err
			}
			reportSaved(cmd, s, p)
			return nil
		})
	},
}

func findProject(projects []*model.Project, id string) (*model.Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// parseStatus accepts wire values case-insensitively, plus "todo" and
// "in-progress" style spellings. Empty means the server default.
func parseStatus(s string) (model.ProjectStatus, error) {
	if s == "" {
		return "", nil
	}
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, st := range model.ProjectStatuses {
		if strings.ReplaceAll(strings.ToLower(string(st)), " ", "") == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func reportSaved(cmd *cobra.Command, s *session, p *model.Project) {
	out := cmd.OutOrStdout()
	if !s.tracker.Online() || offline.IsTempID(p.ID) {
		renderBanner(out)
		fmt.Fprintln(out, mutedStyle.Render("Queued for sync."))
	}
	renderProject(out, p)
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "project name")
	cmd.Flags().String("description", "", "project description")
	cmd.Flags().String("status", "", "Backlog, To Do, In Progress or Completed")
	cmd.Flags().String("assignee", "", "assignee user id (empty for none)")
}

func init() {
	addEditFlags(createCmd)
	_ = createCmd.MarkFlagRequired("name")
	addEditFlags(updateCmd)
	rootCmd.AddCommand(createCmd, updateCmd)
}
