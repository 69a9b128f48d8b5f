// Package scrape fetches web page content through an extraction engine and
// annotates it for downstream analysis. Two engines are provided: a hosted
// reader API client and a local fetch-and-convert pipeline.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// minContentLength is the minimum usable content size after trimming.
// Shorter extractions indicate a blocked, empty, or broken page.
const minContentLength = 100

// ErrInsufficientContent is returned when an extraction yields too little text.
var ErrInsufficientContent = errors.New("insufficient content extracted from website")

// Engine extracts raw text content for a URL.
type Engine interface {
	// Extract returns the page content as text or markdown.
	Extract(ctx context.Context, url string) (string, error)

	// Method returns a human-readable label for the extraction method.
	Method() string
}

// Scraper runs an extraction engine and post-processes its output.
type Scraper struct {
	engine Engine
	logger *slog.Logger
}

// NewScraper creates a scraper around the given engine.
func NewScraper(engine Engine, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{engine: engine, logger: logger}
}

// Scrape extracts content for the URL and wraps it with the analysis
// header and footer. Extractions under the minimum size fail regardless
// of the engine's status.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	content, err := s.engine.Extract(ctx, url)
	if err != nil {
		return "", fmt.Errorf("scraping error: %w", err)
	}

	if len(strings.TrimSpace(content)) < minContentLength {
		return "", ErrInsufficientContent
	}

	s.logger.Debug("Extracted website content",
		"url", url,
		"method", s.engine.Method(),
		"chars", len(content))

	return Enhance(content, url, s.engine.Method()), nil
}
