package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projecttracker/tracker/internal/repository"
)

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func TestHealth(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name        string
		db          repository.DB
		ctx         context.Context
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "store reachable",
			db:          &mockDB{},
			ctx:         context.Background(),
			wantCode:    http.StatusOK,
			wantStatus:  "ok",
			wantMessage: "Project Tracker API",
		},
		{
			name: "store failing",
			db: &mockDB{pingFunc: func(ctx context.Context) error {
				return errors.New("store unavailable")
			}},
			ctx:         context.Background(),
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "unhealthy",
			wantMessage: "store unavailable",
		},
		{
			name:        "memory store with request gone",
			db:          repository.NewMemoryProjectRepository(),
			ctx:         canceled,
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  "unhealthy",
			wantMessage: context.Canceled.Error(),
		},
		{
			name:        "memory store",
			db:          repository.NewMemoryProjectRepository(),
			ctx:         context.Background(),
			wantCode:    http.StatusOK,
			wantStatus:  "ok",
			wantMessage: "Project Tracker API",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.db, "*")
			req := httptest.NewRequest("GET", "/api/health", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()

			h.Health(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp healthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("expected status=%q, got %q", tt.wantStatus, resp.Status)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("expected message=%q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}
}
