package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenprint/greenprint-backend/internal/config"
	"github.com/greenprint/greenprint-backend/internal/db"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/realtime"
	"github.com/greenprint/greenprint-backend/internal/realtime/bus"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"), log)
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}

	// Progress bus (optional)
	var progressBus bus.Bus
	if cfg.Redis.Addr != "" {
		progressBus, err = bus.NewRedisBus(log, cfg.Redis.Addr, cfg.Redis.Channel)
		if err != nil {
			log.Warn("Redis bus init failed, progress events disabled", "error", err)
			progressBus = nil
		} else {
			defer progressBus.Close()
		}
	}

	// Tail progress events until shutdown so the daemon has a heartbeat
	// in the logs even with no transport attached.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if progressBus != nil {
		if err := progressBus.Subscribe(ctx, func(event realtime.ProgressEvent) {
			log.Info("progress updated",
				"user_id", event.UserID,
				"recommendation_id", event.RecommendationID,
				"progress_percentage", event.ProgressPercentage,
			)
		}); err != nil {
			log.Warn("Progress subscription failed", "error", err)
		}
	}

	log.Info("Greenprint core initialized")
	<-ctx.Done()
	log.Info("Shutting down")
}
