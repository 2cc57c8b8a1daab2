package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/projecttracker/tracker/internal/handler"
	"github.com/projecttracker/tracker/internal/openapi"
	"github.com/projecttracker/tracker/internal/repository"
	"github.com/projecttracker/tracker/internal/service"
)

// app is the wired server: handler chain plus resources to release.
type app struct {
	Handler http.Handler
	limiter *handler.RateLimiter
}

func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
}

func newApp(cfg config) (*app, error) {
	var (
		userRepo    *repository.MemoryUserRepository
		projectRepo = repository.NewMemoryProjectRepository()
	)
	if cfg.SeedData {
		now := time.Now().UTC()
		users := repository.SeedUsers(now)
		userRepo = repository.NewMemoryUserRepository(users...)
		projectRepo.Seed(repository.SeedProjects(now, users)...)
	} else {
		userRepo = repository.NewMemoryUserRepository()
	}

	projectService := service.NewProjectService(projectRepo, userRepo)
	userService := service.NewUserService(userRepo)

	h := handler.New(projectRepo, cfg.CORSOrigin)
	projectHandler := handler.NewProjectHandler(projectService)
	userHandler := handler.NewUserHandler(userService)
	docsHandler, err := handler.NewDocsHandler(openapi.Build(cfg.PublicURL))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("PUT /api/projects/{id}", projectHandler.Update)
	mux.HandleFunc("GET /api/users", userHandler.List)

	mux.HandleFunc("GET /openapi.json", docsHandler.JSON)
	mux.HandleFunc("GET /openapi.yaml", docsHandler.YAML)
	mux.HandleFunc("GET /api-docs", docsHandler.UI)
	mux.Handle("GET /metrics", promhttp.Handler())

	a := &app{}
	var next http.Handler = mux
	if cfg.RateLimitPerMinute > 0 {
		a.limiter = handler.NewRateLimiter(cfg.RateLimitPerMinute, cfg.TrustedProxies)
		next = a.limiter.Middleware(next)
	}
	a.Handler = handler.RequestLogger(handler.SecurityHeaders(h.CORS(next)))
	return a, nil
}
