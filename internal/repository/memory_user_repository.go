package repository

import (
	"context"
	"sync"

	"github.com/projecttracker/tracker/internal/model"
)

// MemoryUserRepository is an in-process UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*model.User
}

// NewMemoryUserRepository creates a repository holding users in the given order.
func NewMemoryUserRepository(users ...*model.User) *MemoryUserRepository {
	r := &MemoryUserRepository{}
	for _, u := range users {
		c := *u
		r.users = append(r.users, &c)
	}
	return r
}

// List returns every user.
func (r *MemoryUserRepository) List(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		users = append(users, &c)
	}
	return users, nil
}

// FindByID returns the user with id or ErrNotFound.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}
