package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names selectable via AI_PROVIDER. Exactly one provider is active
// for the lifetime of the process; there is no per-request switch.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// AI provider configuration
	Provider     string // "openai" or "gemini"
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Provider call bound. Applies to the HTTP round trip; a timeout is
	// treated the same as any other provider failure.
	ProviderTimeout time.Duration

	// Rate limit tiers: general API, commentary mode, and provider calls.
	GeneralLimitMax       int
	GeneralLimitWindow    time.Duration
	CommentaryLimitMax    int
	CommentaryLimitWindow time.Duration
	AILimitMax            int
	AILimitWindow         time.Duration

	// Auto-commentary scheduler
	AutoCommentaryEnabled  bool
	AutoCommentaryInterval time.Duration

	// Azure Storage configuration (artifact persistence)
	StorageAccount   string
	StorageContainer string

	// Ops alert configuration
	TeamsWebhookURL string
	AlertEmail      string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		Provider:     getEnv("AI_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		ProviderTimeout: getDurationEnv("AI_PROVIDER_TIMEOUT", 30*time.Second),

		GeneralLimitMax:       getIntEnv("RATE_LIMIT_GENERAL_MAX", 100),
		GeneralLimitWindow:    getDurationEnv("RATE_LIMIT_GENERAL_WINDOW", 15*time.Minute),
		CommentaryLimitMax:    getIntEnv("RATE_LIMIT_COMMENTARY_MAX", 10),
		CommentaryLimitWindow: getDurationEnv("RATE_LIMIT_COMMENTARY_WINDOW", time.Minute),
		AILimitMax:            getIntEnv("RATE_LIMIT_AI_MAX", 5),
		AILimitWindow:         getDurationEnv("RATE_LIMIT_AI_WINDOW", time.Minute),

		AutoCommentaryEnabled:  getBoolEnv("AUTO_COMMENTARY_ENABLED", false),
		AutoCommentaryInterval: getDurationEnv("AUTO_COMMENTARY_INTERVAL", 30*time.Second),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "artifacts"),

		TeamsWebhookURL: getEnv("TEAMS_WEBHOOK_URL", ""),
		AlertEmail:      getEnv("ALERT_EMAIL", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getIntEnv("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderGemini {
		return fmt.Errorf("AI_PROVIDER must be '%s' or '%s'", ProviderOpenAI, ProviderGemini)
	}

	if c.GeneralLimitMax <= 0 || c.CommentaryLimitMax <= 0 || c.AILimitMax <= 0 {
		return fmt.Errorf("rate limit maximums must be positive")
	}

	if c.AlertEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when ALERT_EMAIL is set")
		}
	}

	return nil
}

// APIKey returns the credential for the active provider. An empty string
// means the deployment is missing its credential; the gateway surfaces that
// as a configuration error rather than attempting a call.
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
