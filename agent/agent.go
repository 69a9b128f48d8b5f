// Package agent orchestrates the analysis and chat pipelines: it sequences
// the scraper, the insight extractor, and the record store, and shapes
// results into client-facing reports.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/siteintel/siteintel/events"
	"github.com/siteintel/siteintel/insight"
	"github.com/siteintel/siteintel/store"
)

// historyLimit is the number of prior turns fed into a chat prompt.
const historyLimit = 10

// ErrNotAnalyzed signals a chat request for a URL with no stored analysis.
var ErrNotAnalyzed = errors.New("website not analyzed")

// PipelineError wraps any scrape, extraction, or store failure with the
// pipeline stage it occurred in.
type PipelineError struct {
	Stage string // "analysis" or "chat"
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s pipeline: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Scraper fetches annotated page content for a URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Extractor derives insights and conversational answers from content.
type Extractor interface {
	ExtractInsights(ctx context.Context, content string, questions []string) (*insight.Result, error)
	AnswerQuery(ctx context.Context, content, query string, history []insight.Turn) (string, error)
}

// Recorder persists and retrieves analysis and conversation records.
type Recorder interface {
	UpsertAnalysis(ctx context.Context, url, rawContent string, insights json.RawMessage) (string, error)
	GetAnalysis(ctx context.Context, url string) (*store.Analysis, error)
	AppendConversation(ctx context.Context, url, query, response string) (string, error)
	RecentConversations(ctx context.Context, url string, limit int) ([]store.Conversation, error)
}

// EventSink receives lifecycle events. *events.Publisher satisfies it.
type EventSink interface {
	PublishAnalysisCompleted(event events.AnalysisCompleted)
	PublishConversationRecorded(event events.ConversationRecorded)
}

// AnalysisReport is the client-facing result of an analyze call.
type AnalysisReport struct {
	URL       string                    `json:"url"`
	Insights  *insight.BusinessInsights `json:"insights"`
	Timestamp time.Time                 `json:"timestamp"`
}

// ChatReply is the client-facing result of a chat call.
type ChatReply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Agent runs the request pipelines with explicitly injected collaborators.
type Agent struct {
	scraper   Scraper
	extractor Extractor
	recorder  Recorder
	sink      EventSink
	logger    *slog.Logger
}

// New creates an agent. sink may be nil to disable event publishing.
func New(scraper Scraper, extractor Extractor, recorder Recorder, sink EventSink, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		scraper:   scraper,
		extractor: extractor,
		recorder:  recorder,
		sink:      sink,
		logger:    logger,
	}
}

// Analyze runs the full analysis pipeline for a URL: scrape, persist the
// content, extract insights, persist again with insights, and shape the
// report. A failure after the first persist leaves a content-only record
// behind; no rollback is attempted.
func (a *Agent) Analyze(ctx context.Context, url string, questions []string) (*AnalysisReport, error) {
	a.logger.Info("Analyzing website", "url", url, "custom_questions", len(questions))

	content, err := a.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, &PipelineError{Stage: "analysis", Err: err}
	}

	if _, err := a.recorder.UpsertAnalysis(ctx, url, content, nil); err != nil {
		return nil, &PipelineError{Stage: "analysis", Err: err}
	}

	result, err := a.extractor.ExtractInsights(ctx, content, questions)
	if err != nil {
		return nil, &PipelineError{Stage: "analysis", Err: err}
	}

	insightsJSON, err := encodeResult(result)
	if err != nil {
		return nil, &PipelineError{Stage: "analysis", Err: err}
	}

	recordID, err := a.recorder.UpsertAnalysis(ctx, url, content, insightsJSON)
	if err != nil {
		return nil, &PipelineError{Stage: "analysis", Err: err}
	}

	if a.sink != nil {
		a.sink.PublishAnalysisCompleted(events.AnalysisCompleted{
			RecordID:    recordID,
			URL:         url,
			ContentSize: len(content),
			HasInsights: result.Kind == insight.KindStructured,
			CompletedAt: time.Now().UTC(),
		})
	}

	return &AnalysisReport{
		URL:       url,
		Insights:  shapeInsights(result),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Chat answers a question about a previously analyzed URL, feeding the
// stored content and the recent turn history into the model and recording
// the new exchange.
func (a *Agent) Chat(ctx context.Context, url, query string) (*ChatReply, error) {
	a.logger.Info("Chat query for website", "url", url)

	record, err := a.recorder.GetAnalysis(ctx, url)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotAnalyzed
	}
	if err != nil {
		return nil, &PipelineError{Stage: "chat", Err: err}
	}

	recent, err := a.recorder.RecentConversations(ctx, url, historyLimit)
	if err != nil {
		return nil, &PipelineError{Stage: "chat", Err: err}
	}

	// Recent turns arrive newest-first; the prompt transcript reads
	// chronologically.
	history := make([]insight.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, insight.Turn{
			Query:    recent[i].Query,
			Response: recent[i].Response,
		})
	}

	response, err := a.extractor.AnswerQuery(ctx, record.RawContent, query, history)
	if err != nil {
		return nil, &PipelineError{Stage: "chat", Err: err}
	}

	recordID, err := a.recorder.AppendConversation(ctx, url, query, response)
	if err != nil {
		return nil, &PipelineError{Stage: "chat", Err: err}
	}

	if a.sink != nil {
		a.sink.PublishConversationRecorded(events.ConversationRecorded{
			RecordID:   recordID,
			URL:        url,
			RecordedAt: time.Now().UTC(),
		})
	}

	return &ChatReply{
		Response:  response,
		Timestamp: time.Now().UTC(),
	}, nil
}

// encodeResult serializes an extraction result for storage, preserving the
// fallback shapes under their distinguishing keys.
func encodeResult(result *insight.Result) (json.RawMessage, error) {
	switch result.Kind {
	case insight.KindStructured:
		return json.Marshal(result.Structured)
	case insight.KindRaw:
		return json.Marshal(map[string]string{"raw_analysis": result.Raw})
	case insight.KindAnswers:
		return json.Marshal(map[string]string{"custom_answers": result.Answers})
	default:
		return nil, fmt.Errorf("unknown result kind %q", result.Kind)
	}
}

// shapeInsights maps an extraction result onto the client-facing insight
// shape. Custom answers land in products_services; a raw fallback yields an
// empty shape (the stored record still carries the raw text).
func shapeInsights(result *insight.Result) *insight.BusinessInsights {
	switch result.Kind {
	case insight.KindStructured:
		return result.Structured
	case insight.KindAnswers:
		return &insight.BusinessInsights{ProductsServices: result.Answers}
	default:
		return &insight.BusinessInsights{}
	}
}
