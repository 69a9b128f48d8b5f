package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Analysis is a persisted website analysis record, keyed by URL.
type Analysis struct {
	ID         string
	URL        string
	RawContent string
	// Insights is the stored insight JSON, nil until extraction completes.
	Insights  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// timeFormat stores timestamps with nanosecond precision so that
// lexicographic ordering matches chronological ordering.
const timeFormat = time.RFC3339Nano

// UpsertAnalysis creates or replaces the analysis record for a URL and
// returns its id. The id is stable across updates: uniqueness per URL is
// enforced by the store itself, so two concurrent first analyses of the
// same URL cannot produce duplicate rows.
func (s *Store) UpsertAnalysis(ctx context.Context, url, rawContent string, insights json.RawMessage) (string, error) {
	now := time.Now().UTC().Format(timeFormat)

	var insightsVal any
	if insights != nil {
		insightsVal = string(insights)
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO analyses (id, url, raw_content, insights, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			raw_content = excluded.raw_content,
			insights = excluded.insights,
			updated_at = excluded.updated_at
		RETURNING id`,
		uuid.New().String(), url, rawContent, insightsVal, now, now,
	).Scan(&id)
	if err != nil {
		return "", wrapErr("upsert analysis", err)
	}

	return id, nil
}

// GetAnalysis returns the analysis record for a URL, or ErrNotFound.
func (s *Store) GetAnalysis(ctx context.Context, url string) (*Analysis, error) {
	var (
		a         Analysis
		insights  sql.NullString
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, raw_content, insights, created_at, updated_at
		FROM analyses WHERE url = ?`, url,
	).Scan(&a.ID, &a.URL, &a.RawContent, &insights, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get analysis", err)
	}

	if insights.Valid {
		a.Insights = json.RawMessage(insights.String)
	}
	if t, err := time.Parse(timeFormat, createdAt); err == nil {
		a.CreatedAt = t
	}
	if t, err := time.Parse(timeFormat, updatedAt); err == nil {
		a.UpdatedAt = t
	}

	return &a, nil
}
