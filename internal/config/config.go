package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Turnstile TurnstileConfig `koanf:"turnstile"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Storage   StorageConfig   `koanf:"storage"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type TurnstileConfig struct {
	SecretKey string `koanf:"secret_key"`
	// BaseURL overrides the siteverify endpoint, mainly for tests.
	BaseURL string `koanf:"base_url"`
}

type RateLimitConfig struct {
	Window      time.Duration `koanf:"window"`
	MaxRequests int           `koanf:"max_requests"`
}

type StorageConfig struct {
	Type     string         `koanf:"type"` // airtable, sqlite, memory
	Airtable AirtableConfig `koanf:"airtable"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
}

type AirtableConfig struct {
	APIKey string `koanf:"api_key"`
	BaseID string `koanf:"base_id"`
	Table  string `koanf:"table"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load from config.yaml file first
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider("LEADGATE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "LEADGATE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("ratelimit.window") {
		k.Set("ratelimit.window", "60s")
	}
	if !k.Exists("ratelimit.max_requests") {
		k.Set("ratelimit.max_requests", 5)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "airtable")
	}
	if !k.Exists("storage.airtable.table") {
		k.Set("storage.airtable.table", "Leads")
	}
	if !k.Exists("storage.sqlite.path") {
		k.Set("storage.sqlite.path", "./data/leads.db")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute environment variables in secret fields
	cfg.Turnstile.SecretKey = substituteEnvVars(cfg.Turnstile.SecretKey)
	cfg.Storage.Airtable.APIKey = substituteEnvVars(cfg.Storage.Airtable.APIKey)

	return &cfg, nil
}

// Validate checks that every externally supplied value the pipeline depends on
// is present. A deployment without a verification secret fails here rather
// than rejecting every submission as a bot.
func (c *Config) Validate() error {
	if c.Turnstile.SecretKey == "" {
		return fmt.Errorf("turnstile.secret_key is required")
	}

	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("ratelimit.max_requests must be positive, got %d", c.RateLimit.MaxRequests)
	}

	switch c.Storage.Type {
	case "airtable":
		if c.Storage.Airtable.APIKey == "" {
			return fmt.Errorf("storage.airtable.api_key is required when storage.type is airtable")
		}
		if c.Storage.Airtable.BaseID == "" {
			return fmt.Errorf("storage.airtable.base_id is required when storage.type is airtable")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required when storage.type is sqlite")
		}
	case "memory":
		// Nothing to validate
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}

	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
