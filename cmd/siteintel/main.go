// Package main provides the siteintel binary entry point.
// Siteintel is a website intelligence agent: it analyzes websites through a
// content-extraction engine and an LLM, and answers follow-up questions
// about previously analyzed sites.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	// Register LLM providers via init()
	_ "github.com/siteintel/siteintel/llm/providers"

	"github.com/siteintel/siteintel/agent"
	"github.com/siteintel/siteintel/config"
	"github.com/siteintel/siteintel/events"
	"github.com/siteintel/siteintel/insight"
	"github.com/siteintel/siteintel/llm"
	"github.com/siteintel/siteintel/scrape"
	"github.com/siteintel/siteintel/server"
	"github.com/siteintel/siteintel/store"
	"github.com/spf13/cobra"
)

const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "siteintel"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Website intelligence agent API",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.NewLoader(logger).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	recordStore, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer recordStore.Close()
	logger.Info("Record store ready", "path", recordStore.Path())

	llmClient := llm.NewClient(llm.Endpoint{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
	}, llm.WithLogger(logger))
	extractor := insight.NewExtractor(llmClient, cfg.LLM.Temperature, logger)

	var engine scrape.Engine
	if cfg.Scraper.ReaderAPIKey != "" {
		engine = scrape.NewReaderClient(
			cfg.Scraper.ReaderBaseURL,
			cfg.Scraper.ReaderAPIKey,
			cfg.Scraper.UserAgent,
			cfg.Scraper.Timeout,
		)
	} else {
		logger.Info("No reader API key configured, using local extraction engine")
		engine = scrape.NewLocalEngine(
			cfg.Scraper.Timeout,
			cfg.Scraper.UserAgent,
			cfg.Scraper.MaxContentSize,
		)
	}
	scraper := scrape.NewScraper(engine, logger)

	var sink agent.EventSink
	if cfg.Events.URL != "" {
		publisher, err := events.Connect(cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, event publishing disabled", "error", err)
		} else {
			defer publisher.Close()
			sink = publisher
		}
	}

	intelligence := agent.New(scraper, extractor, recordStore, sink, logger)
	api := server.New(cfg, intelligence, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return api.Run(ctx)
}
