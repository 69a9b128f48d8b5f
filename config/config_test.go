package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every environment key the loader reads so ambient values
// cannot leak into a test. t.Setenv restores originals on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "API_SECRET_KEY", "RATE_LIMIT_PER_MINUTE",
		"READER_API_KEY", "READER_BASE_URL", "SCRAPE_TIMEOUT",
		"LLM_PROVIDER", "LLM_ENDPOINT", "LLM_MODEL",
		"GEMINI_API_KEY", "OPENAI_API_KEY",
		"DATABASE_PATH", "NATS_URL", "DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.RateLimit.PerMinute)
	assert.Equal(t, "https://r.jina.ai/", cfg.Scraper.ReaderBaseURL)
	assert.Equal(t, 60*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 0.001)
	assert.False(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Auth.Secret = "secret"
		cfg.LLM.APIKey = "key"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing secret", func(c *Config) { c.Auth.Secret = "" }, "auth secret is required"},
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }, "llm API key is required"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero rate limit", func(c *Config) { c.RateLimit.PerMinute = 0 }, "rate_limit.per_minute"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "mystery" }, "llm.provider"},
		{"missing model", func(c *Config) { c.LLM.Model = "" }, "llm.model is required"},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 1.5 }, "llm.temperature"},
		{"zero scrape timeout", func(c *Config) { c.Scraper.Timeout = 0 }, "scraper.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Server:    ServerConfig{Port: 9000},
		RateLimit: RateLimitConfig{PerMinute: 30},
		LLM:       LLMConfig{Model: "gemini-2.5-pro"},
		Debug:     true,
	})

	assert.Equal(t, 9000, base.Server.Port)
	assert.Equal(t, 30, base.RateLimit.PerMinute)
	assert.Equal(t, "gemini-2.5-pro", base.LLM.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, "gemini", base.LLM.Provider)
	assert.Equal(t, 60*time.Second, base.Scraper.Timeout)
	assert.True(t, base.Debug)

	// Merging a zero config changes nothing.
	before := *base
	base.Merge(&Config{})
	assert.Equal(t, before, *base)

	base.Merge(nil)
	assert.Equal(t, before, *base)
}

func TestLoad_EnvOverlay(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("PORT", "9090")
	t.Setenv("API_SECRET_KEY", "env-secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "25")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("READER_API_KEY", "reader-key")
	t.Setenv("SCRAPE_TIMEOUT", "30s")
	t.Setenv("DEBUG", "true")

	cfg, err := NewLoader(nil).Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.Equal(t, 25, cfg.RateLimit.PerMinute)
	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.Equal(t, "reader-key", cfg.Scraper.ReaderAPIKey)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_ProviderSelectsKeyEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("API_SECRET_KEY", "secret")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("GEMINI_API_KEY", "should-not-win")

	cfg, err := NewLoader(nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "openai-key", cfg.LLM.APIKey)
}

func TestLoad_ConfigFileUnderEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
server:
  port: 9001
llm:
  model: file-model
  temperature: 0.7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yaml), 0o644))

	t.Setenv("API_SECRET_KEY", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := NewLoader(nil).Load()
	require.NoError(t, err)

	// File overrides defaults; env overrides the file.
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 0.001)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("GEMINI_API_KEY", "key")

	_, err := NewLoader(nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth secret is required")
}
