package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pulmosight/lungrisk/internal/artifacts"
	"github.com/pulmosight/lungrisk/internal/config"
	"github.com/pulmosight/lungrisk/internal/database"
	"github.com/pulmosight/lungrisk/internal/monitoring"
	"github.com/pulmosight/lungrisk/internal/scoring"
	"github.com/pulmosight/lungrisk/internal/server"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	bundle, err := artifacts.Load(cfg.ArtifactsDir)
	if err != nil {
		slog.Error("Failed to load model artifacts", "error", err, "dir", cfg.ArtifactsDir)
		os.Exit(1)
	}
	slog.Info("Model artifacts loaded",
		"dir", cfg.ArtifactsDir,
		"features", len(bundle.Meta.FeatureOrder),
		"pi_train", bundle.Meta.PiTrain,
	)

	svc := scoring.New(bundle, scoring.Config{
		PiTrainOverride: cfg.PiTrainOverride,
		PiDeployDefault: cfg.PiDeployDefault,
	})

	deps := server.Deps{
		Service: svc,
		Logger:  monitoring.NewLogger(),
		Metrics: monitoring.NewMetrics(),
	}

	// The audit store is best effort: scoring stays up even when the
	// database cannot be opened.
	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Warn("Audit store unavailable, predictions will not be recorded", "error", err, "dir", cfg.DataDir)
	} else {
		defer db.Close()
		deps.Repo = database.NewRepository(db)
	}

	r := server.New(deps, cfg.AllowedOrigins, cfg.MaxRequestsPerMin)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
