package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Supabase      SupabaseConfig
	Keys          APIKeys
	Ai            AIConfig
	Transcription TranscriptionConfig
	Otel          OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SessionLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionEventsTopic string
}

type DatabaseConfig struct {
	Connection string
}

type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

type APIKeys struct {
	OpenAI        string
	OpenAIBaseURL string
	GoogleGemini  string
}

type AIConfig struct {
	LLMProvider   string // "openai", "gemini" or "ollama"
	LLMModel      string
	OllamaBaseURL string
}

type TranscriptionConfig struct {
	Provider string // "openai" or "gemini"
	Model    string
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LLMAPIKey returns the key matching the configured LLM provider.
func (c *Config) LLMAPIKey() string {
	if c.Ai.LLMProvider == "gemini" {
		return c.Keys.GoogleGemini
	}
	return c.Keys.OpenAI
}

// LLMBaseURL returns the endpoint override for the configured LLM provider.
func (c *Config) LLMBaseURL() string {
	switch c.Ai.LLMProvider {
	case "ollama":
		return c.Ai.OllamaBaseURL
	case "gemini":
		return ""
	default:
		return c.Keys.OpenAIBaseURL
	}
}

func (c *Config) TranscriptionAPIKey() string {
	if c.Transcription.Provider == "gemini" {
		return c.Keys.GoogleGemini
	}
	return c.Keys.OpenAI
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SessionLogFilePath: getEnv("SESSION_LOG_FILE_PATH", "logs/session.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionEventsTopic: getEnv("SESSION_EVENTS_TOPIC", "SESSION_STATE_CHANGED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Keys: APIKeys{
			OpenAI:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			GoogleGemini:  getEnv("GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Transcription: TranscriptionConfig{
			Provider: getEnv("TRANSCRIPTION_PROVIDER", "openai"),
			Model:    getEnv("TRANSCRIPTION_MODEL", ""),
		},
		Otel: OtelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
