// Package events publishes analysis lifecycle events to NATS so other
// systems can react to completed work. Publishing is best-effort: a nil
// publisher or a publish failure never affects the request path.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for published events.
const (
	SubjectAnalysisCompleted    = "siteintel.analysis.completed"
	SubjectConversationRecorded = "siteintel.chat.recorded"
)

// AnalysisCompleted is emitted after a site analysis persists its insights.
type AnalysisCompleted struct {
	RecordID    string    `json:"record_id"`
	URL         string    `json:"url"`
	ContentSize int       `json:"content_size"`
	HasInsights bool      `json:"has_insights"`
	CompletedAt time.Time `json:"completed_at"`
}

// ConversationRecorded is emitted after a chat turn is stored.
type ConversationRecorded struct {
	RecordID   string    `json:"record_id"`
	URL        string    `json:"url"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Publisher publishes events to NATS.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewPublisher creates a publisher over an established NATS connection.
// A nil conn disables publishing (graceful degradation).
func NewPublisher(conn *nats.Conn, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, logger: logger}
}

// Connect dials the NATS server and returns a publisher over the connection.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("siteintel"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return NewPublisher(conn, logger), nil
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}

// PublishAnalysisCompleted emits an AnalysisCompleted event.
func (p *Publisher) PublishAnalysisCompleted(event AnalysisCompleted) {
	p.publish(SubjectAnalysisCompleted, event)
}

// PublishConversationRecorded emits a ConversationRecorded event.
func (p *Publisher) PublishConversationRecorded(event ConversationRecorded) {
	p.publish(SubjectConversationRecorded, event)
}

// publish marshals and publishes an event, logging failures instead of
// returning them.
func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.conn == nil {
		return // Skip publishing if no NATS connection (graceful degradation)
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal event", "subject", subject, "error", err)
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("Failed to publish event", "subject", subject, "error", err)
	}
}
