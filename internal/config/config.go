package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Assistant AssistantConfig
	Auth      AuthConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

// AssistantConfig carries the assistant-facing settings: how the bot presents
// itself, which course it serves, and where its documents and index live.
type AssistantConfig struct {
	Name         string
	CourseName   string
	Model        string
	EmbedModel   string
	Temperature  float64
	SystemPrompt string
	ChunkSize    int
	ChunkOverlap int
	DocsPath     string
}

// AuthConfig holds what the session cookie collaborator needs: cookie name,
// signing key, and expiry in days. Nothing else is supplied to it.
type AuthConfig struct {
	CookieName        string
	SigningKey        string
	ExpiryDays        int
	EmailDomain       string
	CredentialBackend string // "postgres" or "file"
	RosterFilePath    string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "ollama"
	LLMProvider       string // "openai" or "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	OpenAIAPIKey      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Assistant: AssistantConfig{
			Name:         getEnv("ASSISTANT_NAME", "TA Chatbot"),
			CourseName:   getEnv("COURSE_NAME", ""),
			Model:        getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
			EmbedModel:   getEnv("ASSISTANT_EMBED_MODEL", "text-embedding-3-small"),
			Temperature:  getEnvAsFloat("ASSISTANT_TEMPERATURE", 0.2),
			SystemPrompt: getEnv("ASSISTANT_SYSTEM_PROMPT", ""),
			ChunkSize:    getEnvAsInt("ASSISTANT_CHUNK_SIZE", 1024),
			ChunkOverlap: getEnvAsInt("ASSISTANT_CHUNK_OVERLAP", 200),
			DocsPath:     getEnv("ASSISTANT_DOCS_PATH", "data"),
		},
		Auth: AuthConfig{
			CookieName:        getEnv("AUTH_COOKIE_NAME", "ta-chatbot-auth"),
			SigningKey:        getEnv("AUTH_SIGNING_KEY", ""),
			ExpiryDays:        getEnvAsInt("AUTH_COOKIE_EXPIRY_DAYS", 7),
			EmailDomain:       getEnv("AUTH_EMAIL_DOMAIN", "mcmaster.ca"),
			CredentialBackend: getEnv("CREDENTIAL_BACKEND", "postgres"),
			RosterFilePath:    getEnv("ROSTER_FILE_PATH", "users.yaml"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		},
	}
}

// Validate reports configuration errors that are fatal at startup.
func (c *Config) Validate() error {
	if c.Database.Connection == "" && c.Auth.CredentialBackend == "postgres" {
		return fmt.Errorf("DB_CONNECTION_STRING is required when CREDENTIAL_BACKEND=postgres")
	}
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required")
	}
	if c.Assistant.ChunkSize <= 0 {
		return fmt.Errorf("ASSISTANT_CHUNK_SIZE must be positive")
	}
	if c.Assistant.ChunkOverlap < 0 {
		return fmt.Errorf("ASSISTANT_CHUNK_OVERLAP must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
