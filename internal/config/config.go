package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the chartgend server settings, loaded from the environment.
type Config struct {
	Port string

	// Auth
	APIKey string

	// Upload limits
	MaxBodyBytes int64

	// Extraction defaults
	AutoDetect bool

	// Render defaults
	RenderWidth int
	RenderScale float64
	AccentColor string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		APIKey: os.Getenv("CHARTGEN_API_KEY"),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 4194304), // 4MB

		AutoDetect: envBool("AUTO_DETECT", true),

		RenderWidth: envInt("RENDER_WIDTH", 640),
		RenderScale: envFloat("RENDER_SCALE", 1.0),
		AccentColor: envOr("ACCENT_COLOR", "#2f6f4f"),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4194304
	}
	if cfg.RenderWidth <= 0 {
		cfg.RenderWidth = 640
	}
	if cfg.RenderScale <= 0 {
		cfg.RenderScale = 1.0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CHARTGEN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
