package providers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/siteintel/siteintel/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProvider_BuildURL(t *testing.T) {
	p := &GeminiProvider{}

	t.Run("default base URL", func(t *testing.T) {
		url := p.BuildURL("", "gemini-2.5-flash-lite", "")
		assert.Equal(t,
			"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-lite:generateContent",
			url)
	})

	t.Run("custom base URL", func(t *testing.T) {
		url := p.BuildURL("http://localhost:9999/v1beta/", "m", "")
		assert.Equal(t, "http://localhost:9999/v1beta/models/m:generateContent", url)
	})

	t.Run("full endpoint passed through", func(t *testing.T) {
		full := "http://localhost:9999/v1beta/models/m:generateContent"
		assert.Equal(t, full, p.BuildURL(full, "m", ""))
	})
}

func TestGeminiProvider_SetHeaders(t *testing.T) {
	p := &GeminiProvider{}
	req, _ := http.NewRequest(http.MethodPost, "http://example.com", nil)

	p.SetHeaders(req, "secret-key")
	assert.Equal(t, "secret-key", req.Header.Get("x-goog-api-key"))
}

func TestGeminiProvider_BuildRequestBody(t *testing.T) {
	p := &GeminiProvider{}
	temp := 0.3

	body, err := p.BuildRequestBody("gemini-2.5-flash-lite", []llm.Message{
		{Role: "system", Content: "You are an analyst."},
		{Role: "user", Content: "Analyze this."},
		{Role: "assistant", Content: "Done."},
	}, &temp, 1024)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))

	system := req["systemInstruction"].(map[string]any)
	parts := system["parts"].([]any)
	assert.Equal(t, "You are an analyst.", parts[0].(map[string]any)["text"])

	contents := req["contents"].([]any)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])
	assert.Equal(t, "model", contents[1].(map[string]any)["role"])

	cfg := req["generationConfig"].(map[string]any)
	assert.Equal(t, 0.3, cfg["temperature"])
	assert.Equal(t, float64(1024), cfg["maxOutputTokens"])
}

func TestGeminiProvider_ParseResponse(t *testing.T) {
	p := &GeminiProvider{}

	t.Run("success", func(t *testing.T) {
		body := []byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "part one "}, {"text": "part two"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 5, "totalTokenCount": 17},
			"modelVersion": "gemini-2.5-flash-lite-001"
		}`)

		resp, err := p.ParseResponse(body, "gemini-2.5-flash-lite")
		require.NoError(t, err)
		assert.Equal(t, "part one part two", resp.Content)
		assert.Equal(t, "gemini-2.5-flash-lite-001", resp.Model)
		assert.Equal(t, 17, resp.Usage.TotalTokens)
		assert.Equal(t, "STOP", resp.FinishReason)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := p.ParseResponse([]byte(`{"candidates": []}`), "m")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no candidates")
	})

	t.Run("model falls back to requested", func(t *testing.T) {
		body := []byte(`{"candidates": [{"content": {"parts": [{"text": "x"}]}}]}`)
		resp, err := p.ParseResponse(body, "gemini-2.5-flash-lite")
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-flash-lite", resp.Model)
	})
}

func TestOpenAIProvider_BuildURL(t *testing.T) {
	p := &OpenAIProvider{}

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", p.BuildURL("", "m", ""))
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", p.BuildURL("http://localhost:11434/v1", "m", ""))
	assert.Equal(t, "http://x/v1/chat/completions", p.BuildURL("http://x/v1/chat/completions", "m", ""))
}

func TestOpenAIProvider_ParseResponse_NoChoices(t *testing.T) {
	p := &OpenAIProvider{}
	_, err := p.ParseResponse([]byte(`{"choices": []}`), "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
