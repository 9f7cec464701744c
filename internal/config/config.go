// Package config loads application settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

// Config holds application configuration values.
type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"APP_ENV"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	MediaDir      string `mapstructure:"MEDIA_DIR"`
	PageSize      int    `mapstructure:"PAGE_SIZE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	SiteName      string `mapstructure:"SITE_NAME"`
	SiteURL       string `mapstructure:"SITE_URL"`
}

// Load reads an optional .env file, then environment variables, on top of defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=blogicum port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("MEDIA_DIR", "./media")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SITE_NAME", "Blogicum")
	v.SetDefault("SITE_URL", "http://localhost:8080")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate checks required values and production-only constraints.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.PageSize <= 0 {
		return errors.New("PAGE_SIZE must be positive")
	}
	if c.IsProduction() {
		if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}
