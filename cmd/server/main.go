package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"barangay_app_go/config"
	"barangay_app_go/db"
	"barangay_app_go/handlers"
	"barangay_app_go/logger"
	"barangay_app_go/metrics"
	"barangay_app_go/middleware"
	"barangay_app_go/models"
	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat, "barangay-server"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	if err := db.Initialize(db.OptionsFromConfig(cfg)); err != nil {
		logger.L.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.L.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage := services.NewStorage(ctx, cfg)
	handlers.Storage = storage
	handlers.Tokens = services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	handlers.Printer = &services.CertificatePrinter{
		DB:           db.DB,
		Storage:      storage,
		Renderer:     services.NewChromePDF(cfg.ChromePath),
		BarangayName: cfg.BarangayName,
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.RequestMetrics(metrics.Default))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("10M"))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	handlers.RegisterRoutes(e, handlers.Tokens)

	// Start server
	go func() {
		logger.L.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
			zap.String("storage", storage.Name()),
		)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("graceful shutdown failed", zap.Error(err))
	}
}
