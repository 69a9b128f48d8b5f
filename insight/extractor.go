package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siteintel/siteintel/llm"
)

// Completer is the slice of the LLM client the extractor needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Extractor derives business insights and conversational answers from
// website content.
type Extractor struct {
	client      Completer
	temperature float64
	logger      *slog.Logger
}

// NewExtractor creates an extractor around an LLM client.
func NewExtractor(client Completer, temperature float64, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:      client,
		temperature: temperature,
		logger:      logger,
	}
}

// ExtractInsights analyzes content and returns either the structured insight
// shape, a raw-text fallback when the model output fails to parse, or
// free-text answers when custom questions are supplied. JSON shape problems
// never fail the call; only provider failures do.
func (e *Extractor) ExtractInsights(ctx context.Context, content string, questions []string) (*Result, error) {
	var prompt string
	if len(questions) > 0 {
		bullets := make([]string, len(questions))
		for i, q := range questions {
			bullets[i] = "- " + q
		}
		prompt = fmt.Sprintf(customQuestionsPrompt, content, strings.Join(bullets, "\n"))
	} else {
		prompt = fmt.Sprintf(defaultInsightsPrompt, content)
	}

	temp := e.temperature
	resp, err := e.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: analystSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis error: %w", err)
	}

	if len(questions) > 0 {
		return &Result{Kind: KindAnswers, Answers: resp.Content}, nil
	}

	return e.parseInsights(resp.Content), nil
}

// parseInsights parses the default-mode model output, degrading to the raw
// text variant when no valid JSON can be recovered.
func (e *Extractor) parseInsights(content string) *Result {
	jsonStr := llm.ExtractJSON(content)
	if jsonStr == "" {
		e.logger.Warn("No JSON found in insight response, returning raw text")
		return &Result{Kind: KindRaw, Raw: content}
	}

	var insights BusinessInsights
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
		e.logger.Warn("Failed to parse insight JSON, returning raw text", "error", err)
		return &Result{Kind: KindRaw, Raw: content}
	}

	return &Result{Kind: KindStructured, Structured: &insights}
}

// AnswerQuery answers a conversational question about previously analyzed
// content, grounding the model in the stored page text and the prior turns
// in chronological order.
func (e *Extractor) AnswerQuery(ctx context.Context, content, query string, history []Turn) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Website Content:\n%s\n\n", content)

	if len(history) > 0 {
		b.WriteString("Previous Conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "User: %s\n", turn.Query)
			fmt.Fprintf(&b, "Assistant: %s\n", turn.Response)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Current Question: %s\n", query)

	resp, err := e.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: conversationSystemPrompt},
			{Role: "user", Content: b.String()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("conversation error: %w", err)
	}

	return resp.Content, nil
}
