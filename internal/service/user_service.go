package service

import (
	"context"

	"github.com/projecttracker/tracker/internal/model"
	"github.com/projecttracker/tracker/internal/repository"
)

// UserService exposes the read-only user directory.
type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}
