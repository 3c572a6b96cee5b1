package main

import (
	"log"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/model"
	"ta-chatbot-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	// pgvector must exist before the embedding column can migrate.
	if err := gormDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Unable to create vector extension: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.DocumentChunk{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migration complete")
}
