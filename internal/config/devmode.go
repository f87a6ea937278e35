package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// DevModeConfig holds the bcrypt hash of the code that unlocks the
// per-tab "under development" toggle. An empty hash disables the toggle.
type DevModeConfig struct {
	CodeHash string
}

// NewDevModeConfig reads DEV_MODE_CODE_HASH, or hashes DEV_MODE_CODE when only
// the plain code is given.
func NewDevModeConfig() (*DevModeConfig, error) {
	if hash := os.Getenv("DEV_MODE_CODE_HASH"); hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid DEV_MODE_CODE_HASH: %v", err)
		}
		return &DevModeConfig{CodeHash: hash}, nil
	}

	code := os.Getenv("DEV_MODE_CODE")
	if code == "" {
		return &DevModeConfig{}, nil
	}
	hash, err := HashCode(code)
	if err != nil {
		return nil, err
	}
	return &DevModeConfig{CodeHash: hash}, nil
}

// Enabled reports whether a code is configured.
func (c *DevModeConfig) Enabled() bool {
	return c != nil && c.CodeHash != ""
}

// HashCode hashes a developer code with bcrypt.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash developer code: %w", err)
	}
	return string(hash), nil
}

// Verify checks code against the configured hash.
func (c *DevModeConfig) Verify(code string) bool {
	if !c.Enabled() || code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) == nil
}
