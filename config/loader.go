package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ConfigFile is the name of the optional project-level config file.
const ConfigFile = "siteintel.yaml"

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Project config file (siteintel.yaml in the working directory, if present)
// 3. Environment variables (secrets are env-only)
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if fileConfig, err := LoadFromFile(ConfigFile); err == nil {
		l.logger.Debug("Loaded config file", slog.String("path", ConfigFile))
		config.Merge(fileConfig)
	} else if !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Failed to load config file",
			slog.String("path", ConfigFile),
			slog.String("error", err.Error()))
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overlays environment variables onto the config.
// Keys match the original deployment environment of the service.
func (l *Loader) applyEnv(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		} else {
			l.logger.Warn("Ignoring invalid PORT", slog.String("value", v))
		}
	}
	if v := os.Getenv("API_SECRET_KEY"); v != "" {
		config.Auth.Secret = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimit.PerMinute = n
		} else {
			l.logger.Warn("Ignoring invalid RATE_LIMIT_PER_MINUTE", slog.String("value", v))
		}
	}
	if v := os.Getenv("READER_API_KEY"); v != "" {
		config.Scraper.ReaderAPIKey = v
	}
	if v := os.Getenv("READER_BASE_URL"); v != "" {
		config.Scraper.ReaderBaseURL = v
	}
	if v := os.Getenv("SCRAPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Scraper.Timeout = d
		} else {
			l.logger.Warn("Ignoring invalid SCRAPE_TIMEOUT", slog.String("value", v))
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		config.LLM.Endpoint = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	switch config.LLM.Provider {
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			config.LLM.APIKey = v
		}
	default:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			config.LLM.APIKey = v
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		config.Store.Path = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		config.Events.URL = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Debug = b
		}
	}
}
