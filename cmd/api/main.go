// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-api/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-api/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting application")

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := db.Health(); err != nil {
		logger.Fatalf("Database health check failed: %v", err)
	}
	if err := redisClient.Health(); err != nil {
		logger.Fatalf("Redis health check failed: %v", err)
	}

	// Run migrations and development fixtures
	if err := postgres.Migrate(db.GetDB(), logger); err != nil {
		logger.Fatalf("Database migration failed: %v", err)
	}
	if cfg.IsDevelopment() {
		if err := postgres.Seed(db.GetDB(), logger); err != nil {
			logger.Warnf("Seeding failed: %v", err)
		}
	}

	// Start the HTTP server
	server := http.NewServer(cfg, logger, db.GetDB(), redisClient.GetClient())

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}

	logger.Info("Application stopped")
}

// newLogger builds the application logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
