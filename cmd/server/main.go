package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/projecttracker/tracker/internal/logging"
)

func main() {
	_ = godotenv.Load()
	logCloser := logging.Setup()
	defer logCloser.Close()

	cfg := loadConfig()
	app, err := newApp(cfg)
	if err != nil {
		logging.Fatal("failed to build server", "error", err)
	}
	defer app.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "docs", cfg.PublicURL+"/api-docs")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

type config struct {
	Port               string
	CORSOrigin         string
	PublicURL          string
	SeedData           bool
	RateLimitPerMinute int
	TrustedProxies     int
}

func loadConfig() config {
	cfg := config{
		Port:       envOr("PORT", "3000"),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),
		SeedData:   envOr("SEED_DATA", "true") == "true",
	}
	cfg.PublicURL = envOr("PUBLIC_URL", "http://localhost:"+cfg.Port)
	cfg.RateLimitPerMinute, _ = strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MINUTE"))
	cfg.TrustedProxies, _ = strconv.Atoi(os.Getenv("TRUSTED_PROXY_COUNT"))
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
