package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/pkg/offline"
)

const offlineMessage = "You are offline. Changes will be saved when you're back online."

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")).
			Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	statusStyles = map[model.ProjectStatus]lipgloss.Style{
		model.StatusBacklog:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		model.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		model.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

func renderBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render(offlineMessage))
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}

func renderStatus(s model.ProjectStatus) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

func renderProjects(w io.Writer, projects []*model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(cell("ID", 46)+cell("NAME", 28)+cell("STATUS", 14)+"ASSIGNEE"))
	for _, p := range projects {
		assignee := "-"
		if p.Assignee != nil {
			assignee = p.Assignee.Name
			if assignee == "" {
				assignee = "#" + p.Assignee.ID
			}
		}
		id := p.ID
		if offline.IsTempID(id) {
			id = mutedStyle.Render(id + " *")
		}
		fmt.Fprintln(w, cell(id, 46)+cell(p.Name, 28)+cell(renderStatus(p.Status), 14)+assignee)
	}
}

func renderProject(w io.Writer, p *model.Project) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(p.Name), mutedStyle.Render("("+p.ID+")"))
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "Status: %s\n", renderStatus(p.Status))
	if p.Assignee != nil {
		fmt.Fprintf(w, "Assignee: %s\n", strings.TrimSpace(p.Assignee.Name+" #"+p.Assignee.ID))
	}
}

func renderUsers(w io.Writer, users []*model.User) {
	fmt.Fprintln(w, headerStyle.Render(cell("ID", 8)+cell("NAME", 24)+"EMAIL"))
	for _, u := range users {
		fmt.Fprintln(w, cell(u.ID, 8)+cell(u.Name, 24)+u.Email)
	}
}

func renderQueue(w io.Writer, entries []offline.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, successStyle.Render("Queue is empty."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(cell("SEQ", 6)+cell("KIND", 8)+cell("TARGET", 46)+cell("STATUS", 14)+"QUEUED"))
	for _, e := range entries {
		fmt.Fprintln(w, cell(fmt.Sprint(e.Seq), 6)+cell(string(e.Kind), 8)+cell(e.TargetID, 46)+
			cell(string(e.Payload.Status), 14)+e.EnqueuedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func renderReport(w io.Writer, r offline.SyncReport) {
	fmt.Fprintf(w, "Replayed %d, failed %d, still queued %d (%s)\n",
		r.Applied, r.Failed, r.Remaining, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	if r.Discarded > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d edits of unsaved projects discarded", r.Discarded)))
	}
	if r.Err != nil {
		fmt.Fprintln(w, mutedStyle.Render("last error: "+r.Err.Error()))
	}
}
