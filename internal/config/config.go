package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Keys     APIKeys
	Ai       AIConfig
	Honeypot HoneypotConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type APIKeys struct {
	// Honeypot is the shared x-api-key expected from the message transport.
	Honeypot string
	Groq     string
}

type AIConfig struct {
	LLMProvider   string // "groq" or "ollama"
	LLMModel      string // e.g. "llama-3.3-70b-versatile"
	OllamaBaseURL string
	FastReplyOnly bool // Skip model calls, answer from keyword rules
}

type HoneypotConfig struct {
	MaxTurns         int
	MaxMessageLength int
	// CallbackURL receives the fire-and-forget final result. Empty disables it.
	CallbackURL string
	// AlertEmail receives scam alerts when SMTP is configured. Empty disables it.
	AlertEmail string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "honeypot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Keys: APIKeys{
			Honeypot: getEnv("HONEYPOT_API_KEY", ""),
			Groq:     getEnv("GROQ_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "groq"),
			LLMModel:      getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			FastReplyOnly: getEnvAsBool("FAST_REPLY_ONLY", false),
		},
		Honeypot: HoneypotConfig{
			MaxTurns:         getEnvAsInt("HONEYPOT_MAX_TURNS", 6),
			MaxMessageLength: getEnvAsInt("HONEYPOT_MAX_MESSAGE_LENGTH", 4000),
			CallbackURL:      getEnv("HONEYPOT_CALLBACK_URL", ""),
			AlertEmail:       getEnv("HONEYPOT_ALERT_EMAIL", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Honeypot"),
		},
	}
}

// HasLLMKey reports whether a model backend is usable. Without it the
// service still answers, using rule-based replies and fail-safe verdicts.
func (c *Config) HasLLMKey() bool {
	if c.Ai.LLMProvider == "ollama" {
		return true
	}
	return c.Keys.Groq != ""
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

func getEnvAsBool(key string, fallback bool) bool {
	switch getEnv(key, "") {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
