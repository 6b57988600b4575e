package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Downstream webhook (system of record for appointments and purchases)
	ActionWebhookURL     string
	ActionWebhookTimeout time.Duration

	// WhatsApp Graph API transport
	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppVerifyToken   string

	// Session storage: "memory" (default) or "redis"
	SessionBackend string
	RedisAddr      string
	RedisPassword  string

	// Inbound debounce quiet period
	BufferQuietPeriod time.Duration

	// Appointments feed (CSV export of the clinic spreadsheet)
	AppointmentsFeedURL     string
	AppointmentsFeedRefresh time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4.1-mini"),

		ActionWebhookURL:     getEnv("WEBHOOK_URL", ""),
		ActionWebhookTimeout: getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),

		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),

		BufferQuietPeriod: getEnvAsDuration("BUFFER_QUIET_PERIOD", 10*time.Second),

		AppointmentsFeedURL:     getEnv("APPOINTMENTS_FEED_URL", ""),
		AppointmentsFeedRefresh: getEnvAsDuration("APPOINTMENTS_FEED_REFRESH", 30*time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
