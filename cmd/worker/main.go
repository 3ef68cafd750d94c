package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"curator/internal/config"
	"curator/internal/database"
	"curator/internal/logger"
	"curator/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize worker
	w := worker.New(cfg, logger, db)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
