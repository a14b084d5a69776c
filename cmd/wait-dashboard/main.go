package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mr1hm/go-wait-dashboard/internal/api"
	"github.com/mr1hm/go-wait-dashboard/internal/backend"
	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/dashboard"
	"github.com/mr1hm/go-wait-dashboard/internal/logging"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
	"github.com/mr1hm/go-wait-dashboard/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "backend", cfg.Backend.URL)

	store, err := repository.Open(cfg.Store)
	if err != nil {
		logging.Fatalf("Failed to open record store: %v", err)
	}
	defer store.Close()

	renderer, err := render.New()
	if err != nil {
		logging.Fatalf("Failed to load templates: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	dash := dashboard.New(dashboard.OptionsFromConfig(cfg), client, store, renderer)
	dash.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS, "/health"))

	handler := api.NewHandler(dash, renderer)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	dash.Stop()

	slog.Info("shutdown complete")
}
