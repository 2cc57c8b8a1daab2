package repository

import (
	"context"
	"sync"

	"github.com/projecttracker/tracker/internal/model"
)

// MemoryProjectRepository is an in-process ProjectRepository. List returns
// projects in insertion order.
type MemoryProjectRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.Project
	newID IDGenerator
	now   Clock
}

// MemoryOption configures a memory repository.
type MemoryOption func(*MemoryProjectRepository)

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(gen IDGenerator) MemoryOption {
	return func(r *MemoryProjectRepository) { r.newID = gen }
}

// WithClock overrides the time source.
func WithClock(now Clock) MemoryOption {
	return func(r *MemoryProjectRepository) { r.now = now }
}

// NewMemoryProjectRepository creates an empty repository.
func NewMemoryProjectRepository(opts ...MemoryOption) *MemoryProjectRepository {
	r := &MemoryProjectRepository{
		byID:  make(map[string]*model.Project),
		newID: UUIDGenerator,
		now:   utcNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping reports ctx's error; the store itself lives in process memory and is
// always reachable.
func (r *MemoryProjectRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// List returns every project.
func (r *MemoryProjectRepository) List(_ context.Context) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0, len(r.order))
	for _, id := range r.order {
		projects = append(projects, cloneProject(r.byID[id]))
	}
	return projects, nil
}

// GetByID returns the project with id or ErrNotFound.
func (r *MemoryProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProject(p), nil
}

// Create stores project under a freshly generated id.
func (r *MemoryProjectRepository) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := newUniqueID(r.newID, func(id string) bool {
		_, ok := r.byID[id]
		return ok
	})
	if err != nil {
		return err
	}

	now := r.now()
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	r.insert(project)
	return nil
}

// Seed stores projects with their ids and timestamps as given. Used for
// demo data; an existing id is overwritten in place.
func (r *MemoryProjectRepository) Seed(projects ...*model.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range projects {
		r.insert(p)
	}
}

func (r *MemoryProjectRepository) insert(p *model.Project) {
	if _, exists := r.byID[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = cloneProject(p)
}

// UpdateByID applies apply to the stored project and bumps UpdatedAt.
func (r *MemoryProjectRepository) UpdateByID(_ context.Context, id string, apply func(p *model.Project) error) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := cloneProject(stored)
	if err := apply(next); err != nil {
		return nil, err
	}
	// identity and creation time are not caller-editable
	next.ID = stored.ID
	next.CreatedAt = stored.CreatedAt

	now := r.now()
	if now.Before(next.CreatedAt) {
		now = next.CreatedAt
	}
	next.UpdatedAt = now

	r.byID[id] = next
	return cloneProject(next), nil
}

func cloneProject(p *model.Project) *model.Project {
	c := *p
	if p.Assignee != nil {
		u := *p.Assignee
		c.Assignee = &u
	}
	return &c
}
