package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Conversation is one persisted chat turn for a URL. Rows are append-only.
type Conversation struct {
	ID        string
	URL       string
	Query     string
	Response  string
	CreatedAt time.Time
}

// AppendConversation inserts a new conversation turn and returns its id.
func (s *Store) AppendConversation(ctx context.Context, url, query, response string) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(timeFormat)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, url, query, response, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, url, query, response, now,
	)
	if err != nil {
		return "", wrapErr("append conversation", err)
	}

	return id, nil
}

// RecentConversations returns up to limit conversation turns for a URL,
// most recent first. No turns is an empty slice, not an error.
func (s *Store) RecentConversations(ctx context.Context, url string, limit int) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, query, response, created_at
		FROM conversations
		WHERE url = ?
		ORDER BY created_at DESC
		LIMIT ?`, url, limit,
	)
	if err != nil {
		return nil, wrapErr("recent conversations", err)
	}
	defer rows.Close()

	conversations := []Conversation{}
	for rows.Next() {
		var (
			c         Conversation
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.URL, &c.Query, &c.Response, &createdAt); err != nil {
			return nil, wrapErr("scan conversation", err)
		}
		if t, err := time.Parse(timeFormat, createdAt); err == nil {
			c.CreatedAt = t
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate conversations", err)
	}

	return conversations, nil
}
