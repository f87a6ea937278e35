package config

import (
	"fmt"
	"os"
	"strconv"
)

// SessionConfig holds configuration for signing visitor session tokens.
type SessionConfig struct {
	Secret   string
	TTLHours int
}

// NewSessionConfig creates a session configuration from environment variables.
// It reads SESSION_SECRET (required) and SESSION_TTL_HOURS (default: 24).
func NewSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	ttlStr := os.Getenv("SESSION_TTL_HOURS")
	if ttlStr == "" {
		ttlStr = "24"
	}

	ttl, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %v", err)
	}

	config := &SessionConfig{Secret: secret, TTLHours: ttl}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *SessionConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	return nil
}
