package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"barangay_app_go/config"
	"barangay_app_go/db"
	"barangay_app_go/logger"
	"barangay_app_go/models"
	"barangay_app_go/services"
	"barangay_app_go/services/jobs"

	"go.uber.org/zap"
)

// Runs the daily sweep once, or keeps running it on a cron schedule with
// -schedule. The web server never runs it.
func main() {
	schedule := flag.String("schedule", "", `cron spec to keep running on, e.g. "5 0 * * *"; empty runs once`)
	flag.Parse()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat, "barangay-sweep"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := db.Initialize(db.OptionsFromConfig(cfg)); err != nil {
		logger.L.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.L.Fatal("failed to run migrations", zap.Error(err))
	}

	if *schedule == "" {
		if _, err := jobs.RunDailySweep(db.DB, cfg, services.Now()); err != nil {
			logger.L.Fatal("daily sweep failed", zap.Error(err))
		}
		return
	}

	c, err := jobs.StartScheduler(db.DB, cfg, *schedule)
	if err != nil {
		logger.L.Fatal("invalid schedule", zap.String("schedule", *schedule), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.L.Info("stopping scheduler")
	<-c.Stop().Done()
}
