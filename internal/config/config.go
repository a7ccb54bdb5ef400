package config

import (
	"os"
	"strconv"
	"time"

	// Load .env into the process environment before Load reads it.
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port     int
	GinMode  string
	LogLevel string
	DataDir  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	SessionTTL       time.Duration
	VisitorRetention time.Duration
	ResumeDir        string
}

func Load() Config {
	return Config{
		Port:     envInt("PORT", 8080),
		GinMode:  envStr("GIN_MODE", "debug"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		DataDir:  envStr("DATA_DIR", "./data"),

		OpenAIAPIKey:  envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envStr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   envStr("OPENAI_MODEL", "gpt-3.5-turbo"),

		SMTPHost: envStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: envStr("SMTP_PORT", "587"),
		SMTPUser: envStr("SMTP_USER", ""),
		SMTPPass: envStr("SMTP_PASS", ""),
		ToEmail:  envStr("TO_EMAIL", "joe.yaochen@email.com"),

		AdminUsername:     envStr("ADMIN_USERNAME", "admin"),
		AdminPassword:     envStr("ADMIN_PASSWORD", ""),
		AdminPasswordHash: envStr("ADMIN_PASSWORD_HASH", ""),

		SessionTTL:       envDuration("SESSION_TTL", 30*time.Minute),
		VisitorRetention: envDuration("VISITOR_RETENTION", 365*24*time.Hour),
		ResumeDir:        envStr("RESUME_DIR", "./resume"),
	}
}

// SMTPConfigured reports whether contact submissions can be mailed.
func (c Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// CompletionEnabled reports whether the remote completion backend is active.
func (c Config) CompletionEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
