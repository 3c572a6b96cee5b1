package main

import (
	"context"
	"flag"
	"log"
	"os"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/internal/service"
	"ta-chatbot-be/pkg/database"
)

// Imports an Avenue classlist CSV straight into the roster table, for
// provisioning a course before the server first starts.
func main() {
	csvPath := flag.String("csv", "", "path to the classlist CSV export")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: roster -csv <classlist.csv>")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Unable to open %s: %v", *csvPath, err)
	}
	defer f.Close()

	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	rosterService := service.NewRosterService(unitofwork.NewRepositoryFactory(gormDB), nil, sysLogger)

	result, err := rosterService.ImportCSV(context.Background(), f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Imported %d users, skipped %d", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
}
