package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completionResponse("  The code is fine.\nPortable!!!  ")))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(ProviderConfig{
		BaseURL:           server.URL,
		Model:             "test-model",
		RequestsPerSecond: 100,
		MaxAttempts:       1,
	})

	result, err := provider.Generate(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, "The code is fine.\nPortable!!!", result)
}

func TestOpenRouterProvider_RetriesThenFails(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": "boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(ProviderConfig{
		BaseURL:           server.URL,
		Model:             "test-model",
		RequestsPerSecond: 100,
		MaxAttempts:       1,
	})

	_, err := provider.Generate(context.Background(), "classify this")
	assert.Error(t, err)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestOpenRouterProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	provider := NewOpenRouterProvider(ProviderConfig{
		BaseURL:           server.URL,
		Model:             "test-model",
		RequestsPerSecond: 100,
		MaxAttempts:       1,
	})

	_, err := provider.Generate(context.Background(), "classify this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewProviders(t *testing.T) {
	models := []string{"m1", "m2", "m3"}
	providers := NewProviders(ProviderConfig{BaseURL: "http://localhost/v1"}, models)

	if len(providers) != len(models) {
		t.Fatalf("Expected %d providers, got %d", len(models), len(providers))
	}
	for i, provider := range providers {
		if provider.GetModel() != models[i] {
			t.Errorf("Provider %d: expected model %q, got %q", i, models[i], provider.GetModel())
		}
	}
}
