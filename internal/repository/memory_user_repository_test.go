package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryUserRepository_ListAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(SeedUsers(time.Now())...)

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 || users[0].Name != "John Doe" {
		t.Errorf("unexpected users %v", users)
	}

	u, err := repo.FindByID(ctx, "2")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u.Email != "jane.smith@example.com" {
		t.Errorf("expected jane, got %q", u.Email)
	}

	if _, err := repo.FindByID(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
