package repository

import (
	"time"

	"github.com/projecttracker/tracker/internal/model"
)

// SeedUsers returns the demo users.
func SeedUsers(now time.Time) []*model.User {
	return []*model.User{
		{ID: "1", Name: "John Doe", Email: "john.doe@example.com", Avatar: "https://i.pravatar.cc/150?img=1", CreatedAt: now, UpdatedAt: now},
		{ID: "2", Name: "Jane Smith", Email: "jane.smith@example.com", Avatar: "https://i.pravatar.cc/150?img=2", CreatedAt: now, UpdatedAt: now},
		{ID: "3", Name: "Alice Johnson", Email: "alice.johnson@example.com", Avatar: "https://i.pravatar.cc/150?img=3", CreatedAt: now, UpdatedAt: now},
	}
}

// SeedProjects returns the demo projects, assigned to users from SeedUsers.
func SeedProjects(now time.Time, users []*model.User) []*model.Project {
	assign := func(i int) *model.User {
		if i >= len(users) {
			return nil
		}
		u := *users[i]
		return &u
	}
	mk := func(id string, status model.ProjectStatus, assignee *model.User) *model.Project {
		return &model.Project{
			ID:          id,
			Name:        "Project " + id,
			Description: "Description " + id,
			Status:      status,
			Assignee:    assignee,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return []*model.Project{
		mk("1", model.StatusBacklog, assign(0)),
		mk("2", model.StatusBacklog, nil),
		mk("3", model.StatusTodo, assign(1)),
		mk("4", model.StatusInProgress, assign(2)),
		mk("5", model.StatusCompleted, assign(2)),
	}
}
