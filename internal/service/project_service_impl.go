package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/internal/repository"
)

// ProjectServiceImpl implements ProjectService.
type ProjectServiceImpl struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a ProjectService backed by the given repositories.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) ProjectService {
	return &ProjectServiceImpl{projectRepo: projectRepo, userRepo: userRepo}
}

// List returns all projects.
func (s *ProjectServiceImpl) List(ctx context.Context) ([]*model.Project, error) {
	return s.projectRepo.List(ctx)
}

// GetByID returns one project.
func (s *ProjectServiceImpl) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Create validates input, resolves the assignee and stores a new project.
// Status defaults to Backlog.
func (s *ProjectServiceImpl) Create(ctx context.Context, input model.CreateProjectInput) (*model.Project, error) {
	if input.Status == "" {
		input.Status = model.StatusBacklog
	}
	if err := validate(input.Name, input.Status); err != nil {
		return nil, err
	}

	assignee, err := s.resolveAssignee(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Assignee:    assignee,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update replaces every mutable field of the project with id.
func (s *ProjectServiceImpl) Update(ctx context.Context, id string, input model.UpdateProjectInput) (*model.Project, error) {
	if err := validate(input.Name, input.Status); err != nil {
		return nil, err
	}

	assignee, err := s.resolveAssignee(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	return s.projectRepo.UpdateByID(ctx, id, func(p *model.Project) error {
		p.Name = input.Name
		p.Description = input.Description
		p.Status = input.Status
		p.Assignee = assignee
		return nil
	})
}

// resolveAssignee looks up the user with id. An empty or unknown id means
// unassigned and is not an error.
func (s *ProjectServiceImpl) resolveAssignee(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func validate(name string, status model.ProjectStatus) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: status must be one of Backlog, To Do, In Progress, Completed", ErrInvalidInput)
	}
	return nil
}
