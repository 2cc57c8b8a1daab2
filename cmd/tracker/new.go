package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/offline"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a project from an interactive draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			online := s.connect(ctx)
			draft := offline.NewDraft()

			var users []*model.User
			if online {
				users, _ = s.tracker.Users(ctx)
			}
			save := true
			form, assignee := draftForm(draft, users, &save)
			if err := form.RunWithContext(ctx); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}
			if !save {
				return nil
			}
			for _, u := range users {
				if u.ID == *assignee {
					draft.Assignee = u
				}
			}

			p, err := s.tracker.SaveDraft(ctx, draft)
			if err != nil {
				return err
			}
			reportSaved(cmd, s, p)
			return nil
		})
	},
}

// draftForm edits draft in place and returns the chosen assignee id. The
// assignee picker only appears when the user list could be fetched.
func draftForm(draft *model.Project, users []*model.User, save *bool) (*huh.Form, *string) {
	statusOpts := make([]huh.Option[model.ProjectStatus], 0, len(model.ProjectStatuses))
	for _, st := range model.ProjectStatuses {
		statusOpts = append(statusOpts, huh.NewOption(string(st), st))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&draft.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		huh.NewText().Title("Description").Value(&draft.Description),
		huh.NewSelect[model.ProjectStatus]().Title("Status").Options(statusOpts...).Value(&draft.Status),
	}

	var assignee string
	if len(users) > 0 {
		userOpts := []huh.Option[string]{huh.NewOption("Unassigned", "")}
		for _, u := range users {
			userOpts = append(userOpts, huh.NewOption(u.Name, u.ID))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Assignee").
			Options(userOpts...).
			Value(&assignee))
	}
	fields = append(fields, huh.NewConfirm().Title("Save project?").Value(save))

	return huh.NewForm(huh.NewGroup(fields...)), &assignee
}

func init() {
	rootCmd.AddCommand(newCmd)
}
