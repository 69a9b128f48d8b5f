// Package config provides configuration loading and management for siteintel.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete siteintel configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Events    EventsConfig    `yaml:"events"`
	Debug     bool            `yaml:"debug"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Port is the TCP port the API listens on.
	Port int `yaml:"port"`
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	// Secret is the single shared bearer token. Required.
	// Loaded only from the API_SECRET_KEY environment variable.
	Secret string `yaml:"-"`
}

// RateLimitConfig configures per-client request budgets.
type RateLimitConfig struct {
	// PerMinute is the number of requests allowed per minute per remote address.
	PerMinute int `yaml:"per_minute"`
}

// ScraperConfig configures content extraction.
type ScraperConfig struct {
	// ReaderBaseURL is the hosted reader endpoint used when ReaderAPIKey is set.
	ReaderBaseURL string `yaml:"reader_base_url"`
	// ReaderAPIKey authenticates against the reader endpoint.
	// Loaded only from the READER_API_KEY environment variable.
	ReaderAPIKey string `yaml:"-"`
	// Timeout is the overall deadline for one extraction call.
	Timeout time.Duration `yaml:"timeout"`
	// MaxContentSize caps the fetched body for the local engine.
	MaxContentSize int64 `yaml:"max_content_size"`
	// UserAgent is sent on outbound fetches.
	UserAgent string `yaml:"user_agent"`
}

// LLMConfig configures the inference provider.
type LLMConfig struct {
	// Provider selects the wire format ("gemini" or "openai").
	Provider string `yaml:"provider"`
	// Endpoint overrides the provider's default base URL (empty = default).
	Endpoint string `yaml:"endpoint"`
	// Model is the model identifier requested from the provider.
	Model string `yaml:"model"`
	// APIKey authenticates against the provider.
	// Loaded only from the GEMINI_API_KEY or OPENAI_API_KEY environment variable.
	APIKey string `yaml:"-"`
	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
}

// StoreConfig configures the record store.
type StoreConfig struct {
	// Path is the directory holding the SQLite database file.
	// Empty means ~/.siteintel/data.
	Path string `yaml:"path"`
}

// EventsConfig configures optional NATS event publishing.
type EventsConfig struct {
	// URL is the NATS server URL (empty = publishing disabled).
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 10,
		},
		Scraper: ScraperConfig{
			ReaderBaseURL:  "https://r.jina.ai/",
			Timeout:        60 * time.Second,
			MaxContentSize: 5 * 1024 * 1024,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash-lite",
			Temperature: 0.3,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (set API_SECRET_KEY)")
	}
	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be positive")
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("llm.provider must be \"gemini\" or \"openai\", got %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm API key is required (set GEMINI_API_KEY or OPENAI_API_KEY)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be between 0 and 1")
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive")
	}
	return nil
}

// Merge overlays non-zero fields from other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.RateLimit.PerMinute != 0 {
		c.RateLimit.PerMinute = other.RateLimit.PerMinute
	}
	if other.Scraper.ReaderBaseURL != "" {
		c.Scraper.ReaderBaseURL = other.Scraper.ReaderBaseURL
	}
	if other.Scraper.Timeout != 0 {
		c.Scraper.Timeout = other.Scraper.Timeout
	}
	if other.Scraper.MaxContentSize != 0 {
		c.Scraper.MaxContentSize = other.Scraper.MaxContentSize
	}
	if other.Scraper.UserAgent != "" {
		c.Scraper.UserAgent = other.Scraper.UserAgent
	}
	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Endpoint != "" {
		c.LLM.Endpoint = other.LLM.Endpoint
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Temperature != 0 {
		c.LLM.Temperature = other.LLM.Temperature
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Events.URL != "" {
		c.Events.URL = other.Events.URL
	}
	if other.Debug {
		c.Debug = true
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
