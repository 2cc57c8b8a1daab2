package repository

import (
	"context"

	"github.com/projecttracker/tracker/internal/model"
)

// DB reports whether the backing store is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ProjectRepository persists projects. Implementations return copies so
// callers never share memory with the store.
type ProjectRepository interface {
	List(ctx context.Context) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// Create assigns ID, CreatedAt and UpdatedAt on project.
	Create(ctx context.Context, project *model.Project) error
	// UpdateByID runs apply on the stored project under the store's lock,
	// refreshes UpdatedAt and returns the result. An error from apply aborts
	// the update and is returned as is.
	UpdateByID(ctx context.Context, id string, apply func(p *model.Project) error) (*model.Project, error)
}

// UserRepository reads users. Users are read-only.
type UserRepository interface {
	List(ctx context.Context) ([]*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}
