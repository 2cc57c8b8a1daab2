package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/projecttracker/tracker/internal/model"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestMemoryProjectRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := NewMemoryProjectRepository(WithClock(fixedClock(now)))

	p := &model.Project{Name: "A", Status: model.StatusBacklog}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == "" {
		t.Error("expected ID to be set after Create")
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Errorf("expected timestamps %v, got %v / %v", now, p.CreatedAt, p.UpdatedAt)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != p.ID || got[0].Name != "A" {
		t.Errorf("unexpected list %v", got)
	}
}

func TestMemoryProjectRepository_Create_CollisionChecked(t *testing.T) {
	ctx := context.Background()
	candidates := []string{"1", "1", "2"}
	i := 0
	gen := func() string {
		id := candidates[i]
		i++
		return id
	}
	repo := NewMemoryProjectRepository(WithIDGenerator(gen))

	first := &model.Project{Name: "first"}
	second := &model.Project{Name: "second"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if first.ID != "1" || second.ID != "2" {
		t.Errorf("expected ids 1 and 2, got %q and %q", first.ID, second.ID)
	}
}

func TestMemoryProjectRepository_Create_IDExhausted(t *testing.T) {
	repo := NewMemoryProjectRepository(WithIDGenerator(func() string { return "same" }))
	repo.Seed(&model.Project{ID: "same", Name: "seeded"})

	err := repo.Create(context.Background(), &model.Project{Name: "x"})
	if !errors.Is(err, ErrIDExhausted) {
		t.Errorf("expected ErrIDExhausted, got %v", err)
	}
}

func TestMemoryProjectRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMemoryProjectRepository()
	if _, err := repo.GetByID(context.Background(), "999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProjectRepository_UpdateByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	current := created
	repo := NewMemoryProjectRepository(WithClock(func() time.Time { return current }))

	p := &model.Project{Name: "before", Status: model.StatusBacklog}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	current = later
	updated, err := repo.UpdateByID(ctx, p.ID, func(p *model.Project) error {
		p.Name = "after"
		p.Status = model.StatusCompleted
		p.ID = "tampered"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.ID != p.ID || updated.Name != "after" || updated.Status != model.StatusCompleted {
		t.Errorf("unexpected update result %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(created) {
		t.Errorf("expected createdAt=%v updatedAt=%v, got %v / %v", created, later, updated.CreatedAt, updated.UpdatedAt)
	}
}

func TestMemoryProjectRepository_UpdateByID_ClockSkew(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := created
	repo := NewMemoryProjectRepository(WithClock(func() time.Time { return current }))

	p := &model.Project{Name: "p"}
	_ = repo.Create(ctx, p)

	current = created.Add(-time.Minute)
	updated, err := repo.UpdateByID(ctx, p.ID, func(p *model.Project) error { return nil })
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("updatedAt %v is before createdAt %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestMemoryProjectRepository_UpdateByID_ApplyErrorAborts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepository()
	repo.Seed(&model.Project{ID: "1", Name: "keep"})

	boom := errors.New("boom")
	if _, err := repo.UpdateByID(ctx, "1", func(p *model.Project) error {
		p.Name = "changed"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "1")
	if got.Name != "keep" {
		t.Errorf("expected name unchanged, got %q", got.Name)
	}
}

func TestMemoryProjectRepository_UpdateByID_NotFound(t *testing.T) {
	repo := NewMemoryProjectRepository()
	_, err := repo.UpdateByID(context.Background(), "999", func(p *model.Project) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProjectRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepository()
	repo.Seed(&model.Project{ID: "1", Name: "orig", Assignee: &model.User{ID: "u1", Name: "U"}})

	got, _ := repo.GetByID(ctx, "1")
	got.Name = "mutated"
	got.Assignee.Name = "mutated"

	again, _ := repo.GetByID(ctx, "1")
	if again.Name != "orig" || again.Assignee.Name != "U" {
		t.Errorf("expected stored project untouched, got %+v / %+v", again, again.Assignee)
	}
}

func TestSeedProjects(t *testing.T) {
	now := time.Now().UTC()
	users := SeedUsers(now)
	projects := SeedProjects(now, users)
	if len(users) != 3 || len(projects) != 5 {
		t.Fatalf("expected 3 users and 5 projects, got %d and %d", len(users), len(projects))
	}
	if projects[1].Assignee != nil {
		t.Error("expected project 2 to be unassigned")
	}
	if projects[4].Status != model.StatusCompleted || projects[4].AssigneeID() != "3" {
		t.Errorf("unexpected project 5: %+v", projects[4])
	}
}
