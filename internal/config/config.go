// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use Defaults, environment
// variables, or CLI flags.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	LogLevel   string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	CORSOrigin string `json:"cors_origin,omitempty"`

	// Content
	DefaultLanguage   string   `json:"default_language,omitempty" validate:"omitempty,oneof=en da sv"`
	CollapsedSections []string `json:"collapsed_sections,omitempty" validate:"dive,oneof=summary skills experience education references"`

	// Assistant
	APIKey            string `json:"api_key,omitempty"`                              // Gemini API key for the gateway backend
	GatewayURL        string `json:"gateway_url,omitempty" validate:"omitempty,url"` // Remote gateway; empty uses the in-process backend
	JobTimeoutSeconds int    `json:"job_timeout_seconds,omitempty" validate:"gte=0,lte=600"`

	// Export
	PageSize           string  `json:"page_size,omitempty" validate:"omitempty,oneof=letter a4"`
	Orientation        string  `json:"orientation,omitempty" validate:"omitempty,oneof=portrait landscape"`
	MarginInches       float64 `json:"margin_inches,omitempty" validate:"gte=0,lte=3"`
	ExportSettleMillis int     `json:"export_settle_ms,omitempty" validate:"gte=0,lte=5000"`
	ChromePath         string  `json:"chrome_path,omitempty"`

	// Sessions
	SessionIdleMinutes int `json:"session_idle_minutes,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:               8080,
		LogLevel:           "info",
		DefaultLanguage:    "en",
		JobTimeoutSeconds:  90,
		PageSize:           "letter",
		Orientation:        "portrait",
		MarginInches:       0.5,
		ExportSettleMillis: 50,
		SessionIdleMinutes: 60,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: '%s' failed '%s' validation", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	mergeInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.CORSOrigin, defaults.CORSOrigin)
	mergeString(&result.DefaultLanguage, defaults.DefaultLanguage)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.GatewayURL, defaults.GatewayURL)
	mergeString(&result.PageSize, defaults.PageSize)
	mergeString(&result.Orientation, defaults.Orientation)
	mergeString(&result.ChromePath, defaults.ChromePath)

	mergeInt(&result.Port, defaults.Port)
	mergeInt(&result.JobTimeoutSeconds, defaults.JobTimeoutSeconds)
	mergeInt(&result.ExportSettleMillis, defaults.ExportSettleMillis)
	mergeInt(&result.SessionIdleMinutes, defaults.SessionIdleMinutes)

	if result.MarginInches == 0 {
		result.MarginInches = defaults.MarginInches
	}
	if len(result.CollapsedSections) == 0 {
		result.CollapsedSections = defaults.CollapsedSections
	}

	return result
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv("GATEWAY_URL"); v != "" {
		c.GatewayURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv("DEFAULT_LANGUAGE"); v != "" {
		c.DefaultLanguage = strings.ToLower(v)
	}
	if v := getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

// JobTimeout returns the assistant call timeout.
func (c *Config) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}

// ExportSettle returns the export settle delay.
func (c *Config) ExportSettle() time.Duration {
	return time.Duration(c.ExportSettleMillis) * time.Millisecond
}

// SessionIdle returns how long an unused session is kept.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// CollapsedDefaults returns the default collapse flags as a map.
func (c *Config) CollapsedDefaults() map[string]bool {
	out := make(map[string]bool, len(c.CollapsedSections))
	for _, id := range c.CollapsedSections {
		out[id] = true
	}
	return out
}
