package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublisher_NilSafe(t *testing.T) {
	// A nil publisher and a publisher without a connection both no-op.
	var nilPub *Publisher
	assert.NotPanics(t, func() {
		nilPub.PublishAnalysisCompleted(AnalysisCompleted{URL: "https://example.com"})
		nilPub.PublishConversationRecorded(ConversationRecorded{URL: "https://example.com"})
		nilPub.Close()
	})

	disconnected := NewPublisher(nil, nil)
	assert.NotPanics(t, func() {
		disconnected.PublishAnalysisCompleted(AnalysisCompleted{
			RecordID:    "record-1",
			URL:         "https://example.com",
			ContentSize: 100,
			HasInsights: true,
			CompletedAt: time.Now().UTC(),
		})
		disconnected.PublishConversationRecorded(ConversationRecorded{
			RecordID:   "turn-1",
			URL:        "https://example.com",
			RecordedAt: time.Now().UTC(),
		})
		disconnected.Close()
	})
}
