package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testApp(t *testing.T, cfg config) *app {
	t.Helper()
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestApp_SeededRoutes(t *testing.T) {
	a := testApp(t, config{Port: "3000", CORSOrigin: "*", PublicURL: "http://localhost:3000", SeedData: true})

	paths := map[string]int{
		"/api/health":   http.StatusOK,
		"/api/projects": http.StatusOK,
		"/api/users":    http.StatusOK,
		"/openapi.json": http.StatusOK,
		"/openapi.yaml": http.StatusOK,
		"/api-docs":     http.StatusOK,
		"/metrics":      http.StatusOK,
		"/nope":         http.StatusNotFound,
	}
	for path, want := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		a.Handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("GET %s: expected %d, got %d", path, want, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/projects", nil)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	var projects []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&projects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(projects) != 5 {
		t.Errorf("expected 5 seeded projects, got %d", len(projects))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestApp_UnknownProjectUpdate(t *testing.T) {
	a := testApp(t, config{CORSOrigin: "*", PublicURL: "http://localhost:3000", SeedData: true})

	req := httptest.NewRequest("PUT", "/api/projects/999", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Project not found"}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestApp_Unseeded(t *testing.T) {
	a := testApp(t, config{CORSOrigin: "*", PublicURL: "http://localhost:3000"})

	req := httptest.NewRequest("GET", "/api/users", nil)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected no users, got %s", got)
	}
}

func TestApp_RateLimited(t *testing.T) {
	a := testApp(t, config{CORSOrigin: "*", PublicURL: "http://localhost:3000", RateLimitPerMinute: 1})

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest("GET", "/api/health", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		a.Handler.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CORS_ORIGIN", "PUBLIC_URL", "SEED_DATA", "RATE_LIMIT_PER_MINUTE", "TRUSTED_PROXY_COUNT"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()
	if cfg.Port != "3000" || cfg.CORSOrigin != "*" || !cfg.SeedData || cfg.RateLimitPerMinute != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.PublicURL != "http://localhost:3000" {
		t.Errorf("unexpected public url %q", cfg.PublicURL)
	}
}
