// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the webhook server, catalog refresh, dedup window, and collaborators.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Messenger Platform Configuration
	PageAccessToken string // Page access token for the Send API and profile lookups
	VerifyToken     string // Token echoed during the webhook verification handshake

	// Generative Fallback Configuration
	GeminiAPIKey  string // Gemini API key (primary fallback provider)
	GeminiModel   string // Gemini model (default: gemini-2.5-flash-lite)
	OpenAIAPIKey  string // API key for an OpenAI-compatible secondary provider
	OpenAIBaseURL string // Base URL of the OpenAI-compatible endpoint
	OpenAIModel   string // Model name for the secondary provider

	// Admin Alert Configuration (SMTP)
	SMTPHost       string // SMTP server host (default: smtp.gmail.com)
	SMTPPort       int    // SMTP server port (default: 587, STARTTLS)
	SenderEmail    string // From address and SMTP login
	SenderPassword string // SMTP password (app password for Gmail)
	ReceiverEmail  string // Admin address receiving handover alerts

	// Catalog Configuration
	CatalogURL             string        // Remote products.json URL
	CatalogRefreshInterval time.Duration // How often to refresh (default: 60m)

	// Observability
	SentryToken      string // Better Stack Errors token (empty = disabled)
	SentryHost       string // Better Stack Errors ingesting host
	LogsToken        string // Better Stack Logs token (empty = stdout only)
	LogsEndpoint     string // Better Stack Logs ingesting endpoint
	Environment      string // Deployment environment label (default: production)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Bot Configuration (embedded)
	Bot BotConfig
}

// BotConfig holds bot-specific configuration
type BotConfig struct {
	// Persona
	AssistantName string // Assistant display name used in prompts and resume keywords (default: Sofia)
	BrandName     string // Brand name used in prompts and replies (default: Ace)

	// Conversation keywords
	HandoverKeywords []string // Keywords that trigger a human handover
	ResumeKeywords   []string // Keywords that hand the conversation back to the bot

	// Dedup window
	DedupWindow time.Duration // Retention horizon for seen message ids (default: 1h)

	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per sender (default: 10)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.2 = 1 per 5s)

	// Messenger Platform Constraints
	MaxCarouselItems int // Maximum cards in a generic template (platform limit: 10)
	MaxMessageLength int // Maximum text message length (platform limit: 2000)

	// Timeouts
	WebhookTimeout time.Duration // Timeout for processing one webhook event
}

// defaultHandoverKeywords mirrors the store's customer-service vocabulary,
// English plus Tagalog equivalents.
var defaultHandoverKeywords = []string{
	"refund", "complaint", "complain", "admin", "manager", "supervisor",
	"problema", "issue", "reklamo", "balik", "return", "problem", "cancel",
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	assistantName := getEnv("ASSISTANT_NAME", "Sofia")

	cfg := &Config{
		// Messenger Platform Configuration
		PageAccessToken: getEnv("PAGE_ACCESS_TOKEN", ""),
		VerifyToken:     getEnv("VERIFY_TOKEN", ""),

		// Generative Fallback Configuration
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),

		// Admin Alert Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getIntEnv("SMTP_PORT", 587),
		SenderEmail:    getEnv("SENDER_EMAIL", ""),
		SenderPassword: getEnv("SENDER_PASSWORD", ""),
		ReceiverEmail:  getEnv("RECEIVER_EMAIL", ""),

		// Catalog Configuration
		CatalogURL:             getEnv("CATALOG_URL", ""),
		CatalogRefreshInterval: getDurationEnv("CATALOG_REFRESH_INTERVAL", 60*time.Minute),

		// Observability
		SentryToken:  getEnv("SENTRY_TOKEN", ""),
		SentryHost:   getEnv("SENTRY_HOST", "errors.betterstack.com"),
		LogsToken:    getEnv("LOGS_TOKEN", ""),
		LogsEndpoint: getEnv("LOGS_ENDPOINT", ""),
		Environment:  getEnv("ENVIRONMENT", "production"),

		// Server Configuration
		Port:            getEnv("PORT", "5000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Bot Configuration
		Bot: BotConfig{
			AssistantName:             assistantName,
			BrandName:                 getEnv("BRAND_NAME", "Ace"),
			HandoverKeywords:          getListEnv("HANDOVER_KEYWORDS", defaultHandoverKeywords),
			ResumeKeywords:            getListEnv("RESUME_KEYWORDS", []string{"bot", strings.ToLower(assistantName)}),
			DedupWindow:               getDurationEnv("DEDUP_WINDOW", time.Hour),
			UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 10.0),
			UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.2), // 1 per 5s
			MaxCarouselItems:          10,
			MaxMessageLength:          2000,
			WebhookTimeout:            getDurationEnv("WEBHOOK_TIMEOUT", WebhookProcessing),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.PageAccessToken == "" {
		errs = append(errs, errors.New("PAGE_ACCESS_TOKEN is required"))
	}
	if c.VerifyToken == "" {
		errs = append(errs, errors.New("VERIFY_TOKEN is required"))
	}
	if c.CatalogURL == "" {
		errs = append(errs, errors.New("CATALOG_URL is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.CatalogRefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_REFRESH_INTERVAL must be positive, got %v", c.CatalogRefreshInterval))
	}
	if c.OpenAIAPIKey != "" && c.OpenAIBaseURL == "" {
		errs = append(errs, errors.New("OPENAI_BASE_URL is required when OPENAI_API_KEY is set"))
	}
	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bot config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks bot configuration invariants
func (c *BotConfig) Validate() error {
	var errs []error

	if c.DedupWindow <= 0 {
		errs = append(errs, fmt.Errorf("DEDUP_WINDOW must be positive, got %v", c.DedupWindow))
	}
	if len(c.HandoverKeywords) == 0 {
		errs = append(errs, errors.New("HANDOVER_KEYWORDS must not be empty"))
	}
	if len(c.ResumeKeywords) == 0 {
		errs = append(errs, errors.New("RESUME_KEYWORDS must not be empty"))
	}
	if c.UserRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_BURST must be positive, got %v", c.UserRateLimitBurst))
	}
	if c.UserRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.UserRateLimitRefillPerSec))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasFallbackProvider returns true if at least one generative provider is configured.
func (c *Config) HasFallbackProvider() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}

// HasMailer returns true if the SMTP admin alert sender is configured.
func (c *Config) HasMailer() bool {
	return c.SenderEmail != "" && c.SenderPassword != "" && c.ReceiverEmail != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated list environment variable with
// fallback to a default slice. Entries are trimmed and lowercased; empty
// entries are dropped.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
