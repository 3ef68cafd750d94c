package main

import (
	"log"

	"curator/internal/api"
	"curator/internal/config"
	"curator/internal/database"
	"curator/internal/logger"
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

	// Initialize API server
	server := api.New(cfg, logger, db)

	// Start server
	logger.Info("Starting API server on port %s", cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
