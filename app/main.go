package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macromind/macromind/app/api"
	"github.com/macromind/macromind/app/cfg"
	"github.com/macromind/macromind/app/config"
	"github.com/macromind/macromind/app/database"
	"github.com/macromind/macromind/app/feed"
	"github.com/macromind/macromind/app/llm"
	"github.com/macromind/macromind/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg.Debug)
	slog.Info("Starting MacroMind server", "version", appCfg.Version)

	// Feed profile (categories, quota, freshness window)
	profile, err := config.LoadProfile(appCfg.ProfilePath)
	if err != nil {
		log.Fatalf("Failed to load feed profile: %v", err)
	}
	slog.Info("Feed profile loaded", "categories", len(profile.Categories), "per_category", profile.PerCategory, "expected_items", profile.ExpectedItems())

	// Database connection and migrations
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	// Core components
	feedRepo := database.NewFeedRecordRepository(db)
	completionClient := llm.NewClient(
		appCfg.OpenAIEndpoint, appCfg.OpenAIAPIKey, appCfg.Model,
		profile.Temperature, time.Duration(appCfg.OpenAITimeout)*time.Second)
	generator := feed.NewGenerator(completionClient, feedRepo, profile, appCfg.Model)

	// Optional in-process refresh scheduler
	if appCfg.RefreshInterval > 0 {
		slog.Info("Starting refresh scheduler", "interval_minutes", appCfg.RefreshInterval)
		scheduler := tasks.NewScheduler(generator, feedRepo,
			time.Duration(appCfg.RefreshInterval)*time.Minute)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		slog.Info("Refresh scheduler disabled, relying on external generate triggers")
	}

	// HTTP server
	apiHandler := api.NewHandler(generator, feedRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(appCfg.OpenAITimeout+10) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		slog.Info("Endpoints", "latest", "/feed/latest", "generate", "/generate", "health", "/health")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
