package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		result := ExtractJSON(`{"industry": "Technology"}`)
		assert.JSONEq(t, `{"industry": "Technology"}`, result)
	})

	t.Run("fenced JSON equals unfenced", func(t *testing.T) {
		unfenced := ExtractJSON(`{"industry": "Technology", "location": "Berlin"}`)
		fenced := ExtractJSON("```json\n{\"industry\": \"Technology\", \"location\": \"Berlin\"}\n```")

		var a, b map[string]any
		require.NoError(t, json.Unmarshal([]byte(unfenced), &a))
		require.NoError(t, json.Unmarshal([]byte(fenced), &b))
		assert.Equal(t, a, b)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		result := ExtractJSON("```\n{\"a\": 1}\n```")
		assert.JSONEq(t, `{"a": 1}`, result)
	})

	t.Run("JSON embedded in prose", func(t *testing.T) {
		result := ExtractJSON(`Here is the analysis you asked for: {"a": 1} hope it helps`)
		assert.JSONEq(t, `{"a": 1}`, result)
	})

	t.Run("trailing commas removed", func(t *testing.T) {
		result := ExtractJSON(`{"a": 1, "b": [1, 2,],}`)
		assert.JSONEq(t, `{"a": 1, "b": [1, 2]}`, result)
	})

	t.Run("line comments stripped outside strings", func(t *testing.T) {
		result := ExtractJSON("{\n\"url\": \"https://example.com\", // the site\n\"a\": 1\n}")
		assert.JSONEq(t, `{"url": "https://example.com", "a": 1}`, result)
	})

	t.Run("no JSON yields empty string", func(t *testing.T) {
		assert.Empty(t, ExtractJSON("I could not find any business information."))
	})
}

func TestStripLineComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no comment", `"key": "value"`, `"key": "value"`},
		{"comment after value", `"key": "value", // note`, `"key": "value",`},
		{"slashes inside string kept", `"url": "https://example.com"`, `"url": "https://example.com"`},
		{"comment after URL string", `"url": "https://example.com" // site`, `"url": "https://example.com"`},
		{"escaped quote", `"key": "a \" b // not comment"`, `"key": "a \" b // not comment"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripLineComment(tt.in))
		})
	}
}
