package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bilaalmunir/email-to-summary-automation/internal/api"
	"github.com/bilaalmunir/email-to-summary-automation/internal/cli"
	"github.com/bilaalmunir/email-to-summary-automation/internal/config"
	"github.com/bilaalmunir/email-to-summary-automation/internal/database"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// The emails table lives in the remote store; advise if it is missing
	database.ProbeEmailsTable(db)

	// Check if running CLI command
	if len(os.Args) > 1 {
		cli.Execute(db, cfg)
		return
	}

	// Start API server
	router := api.SetupRouter(db, cfg)

	log.Printf("Starting Mailbrief server on port %s", cfg.APIPort)
	if cfg.DatabaseURL != "" {
		log.Printf("Store: remote database")
	} else {
		log.Printf("Store: %s", cfg.DatabasePath)
	}
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
