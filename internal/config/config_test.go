package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9000,
		"default_language": "da",
		"gateway_url": "https://example.com/api/gateway",
		"collapsed_sections": ["education"],
		"margin_inches": 0.75
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "da", cfg.DefaultLanguage)
	assert.Equal(t, "https://example.com/api/gateway", cfg.GatewayURL)
	assert.Equal(t, []string{"education"}, cfg.CollapsedSections)
	assert.Equal(t, 0.75, cfg.MarginInches)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	_, err := LoadConfig(tmpFile)
	assert.ErrorContains(t, err, "failed to parse config JSON")

	_, err = LoadConfig("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"empty", Config{}, ""},
		{"bad language", Config{DefaultLanguage: "de"}, "default_language"},
		{"bad port", Config{Port: 70000}, "port"},
		{"bad section", Config{CollapsedSections: []string{"hobbies"}}, "collapsed_sections"},
		{"bad url", Config{GatewayURL: "not a url"}, "gateway_url"},
		{"bad page size", Config{PageSize: "legal"}, "page_size"},
		{"negative timeout", Config{JobTimeoutSeconds: -1}, "job_timeout_seconds"},
		{"missing chrome", Config{ChromePath: "/nonexistent/chrome"}, "chrome binary not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000, DefaultLanguage: "sv"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "sv", merged.DefaultLanguage)
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, 0.5, merged.MarginInches)
	assert.Equal(t, 50*time.Millisecond, merged.ExportSettle())
	assert.Equal(t, 90*time.Second, merged.JobTimeout())
	assert.Equal(t, time.Hour, merged.SessionIdle())

	assert.Equal(t, 0, cfg.JobTimeoutSeconds, "receiver is not modified")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEY":   "key",
		"LOG_LEVEL":        "DEBUG",
		"DEFAULT_LANGUAGE": "DA",
		"PORT":             "3000",
	}
	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "da", cfg.DefaultLanguage)
	assert.Equal(t, 3000, cfg.Port)

	env["PORT"] = "eighty"
	assert.ErrorContains(t, cfg.ApplyEnv(func(k string) string { return env[k] }), "invalid PORT")
}

func TestCollapsedDefaults(t *testing.T) {
	cfg := Config{CollapsedSections: []string{"skills", "education"}}
	assert.Equal(t, map[string]bool{"skills": true, "education": true}, cfg.CollapsedDefaults())
}
