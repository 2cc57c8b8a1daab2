package service

import (
	"context"

	"github.com/projecttracker/tracker/internal/model"
)

// ProjectService is the business logic for projects.
type ProjectService interface {
	List(ctx context.Context) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, input model.CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, id string, input model.UpdateProjectInput) (*model.Project, error)
}
