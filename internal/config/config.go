// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Resolver strategy names accepted in the RESOLVER variable.
const (
	ResolverRules  = "rules"
	ResolverGemini = "gemini"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken   string
	DatabaseURL        string
	GeminiAPIKey       string
	LogLevel           string
	Resolver           string
	DefaultCurrency    string
	DeleteCooldown     time.Duration
	LLMReplies         bool
	WhitelistedUserIDs []int64
	OTLPEndpoint       string
	OTLPProtocol       string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		Resolver:         os.Getenv("RESOLVER"),
		DefaultCurrency:  os.Getenv("DEFAULT_CURRENCY"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPProtocol:     os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
	}

	if cfg.Resolver == "" {
		cfg.Resolver = ResolverRules
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}

	cfg.DeleteCooldown = 24 * time.Hour
	if s := os.Getenv("DELETE_COOLDOWN"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.DeleteCooldown = d
		}
	}

	cfg.LLMReplies = os.Getenv("LLM_REPLIES") == "true"

	whitelistStr := os.Getenv("WHITELISTED_USER_IDS")
	if whitelistStr != "" {
		for idStr := range strings.SplitSeq(whitelistStr, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				continue
			}
			cfg.WhitelistedUserIDs = append(cfg.WhitelistedUserIDs, id)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.Resolver != ResolverRules && c.Resolver != ResolverGemini {
		errs = append(errs, fmt.Sprintf("RESOLVER must be %q or %q, got %q", ResolverRules, ResolverGemini, c.Resolver))
	}

	if c.Resolver == ResolverGemini && c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is required when RESOLVER=gemini")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsUserWhitelisted checks if a Telegram user ID may use the bot.
// An empty whitelist means the bot is open to everyone.
func (c *Config) IsUserWhitelisted(userID int64) bool {
	if len(c.WhitelistedUserIDs) == 0 {
		return true
	}
	return slices.Contains(c.WhitelistedUserIDs, userID)
}
