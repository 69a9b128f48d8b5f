package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// LocalEngine extracts content by fetching the page directly and converting
// it to markdown. It serves deployments without a hosted reader credential.
type LocalEngine struct {
	fetcher   *Fetcher
	converter *Converter
}

// NewLocalEngine creates a local fetch-and-convert extraction engine.
func NewLocalEngine(timeout time.Duration, userAgent string, maxContentSize int64) *LocalEngine {
	return &LocalEngine{
		fetcher:   NewFetcher(timeout, userAgent, maxContentSize),
		converter: NewConverter(),
	}
}

// Method returns the extraction method label.
func (e *LocalEngine) Method() string {
	return "Readability (Local Mode)"
}

// Extract fetches the URL and converts the HTML to markdown.
func (e *LocalEngine) Extract(ctx context.Context, target string) (string, error) {
	body, err := e.fetcher.Fetch(ctx, target)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	markdown, err := e.converter.Convert(body, pageURL)
	if err != nil {
		return "", fmt.Errorf("convert content: %w", err)
	}

	return markdown, nil
}
