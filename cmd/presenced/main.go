package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"presence-monitor-backend/config"
	"presence-monitor-backend/internal/api"
	"presence-monitor-backend/internal/db"
	"presence-monitor-backend/internal/registry"
	"presence-monitor-backend/internal/store"
	"presence-monitor-backend/internal/tracker"
)

func main() {
	logger := log.New(os.Stdout, "presence-monitor ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if len(cfg.Tracker.Zones) == 0 {
		logger.Fatalf("no zones configured; at least one tracker zone is required")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("snapshot store initialized")

	trackerSvc, err := tracker.NewService(cfg, appStore, gormDB)
	if err != nil {
		logger.Fatalf("failed to initialize tracker: %v", err)
	}

	var trackerWG sync.WaitGroup
	trackerWG.Add(1)
	go func() {
		defer trackerWG.Done()
		trackerSvc.Run(ctx)
	}()

	registryClient := registry.NewClient(cfg.Upstream.DeptBaseURL, cfg.Upstream.AddPersonURL, cfg.Upstream.AccessToken)

	router := api.NewRouter(cfg, appStore, registryClient)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	// Cancel the tracker loops and wait for in-flight cycles to drain so
	// no partial write happens during shutdown.
	cancel()
	trackerWG.Wait()

	logger.Println("Server gracefully stopped")
}
