package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/config"
	"github.com/KeerthanaDeviGovindaraj/GLIMPSE-sub000/internal/prompts"
)

func TestFromConfig(t *testing.T) {
	openai := FromConfig(&config.Config{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k", OpenAIModel: "gpt-4o-mini"})
	assert.Equal(t, "openai", openai.Name())

	gemini := FromConfig(&config.Config{Provider: config.ProviderGemini, GeminiAPIKey: "k", GeminiModel: "gemini-1.5-flash"})
	assert.Equal(t, "gemini", gemini.Name())
}

var testPrompt = prompts.Prompt{
	System:    "You are an expert sports commentator.",
	User:      "Generate live commentary for this moment: Team A vs Team B.",
	MaxTokens: 200,
}

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"GOAL! What a strike!"}}],"usage":{"prompt_tokens":20,"completion_tokens":8}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", "gpt-4o-mini", 5*time.Second)
	provider.baseURL = server.URL

	text, err := provider.Complete(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "GOAL! What a strike!", text)
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	provider := NewOpenAIProvider("", "gpt-4o-mini", 5*time.Second)

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var confErr *ConfigurationError
	assert.True(t, errors.As(err, &confErr))
	assert.False(t, provider.IsEnabled())
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", "gpt-4o-mini", 5*time.Second)
	provider.baseURL = server.URL

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", "gpt-4o-mini", 5*time.Second)
	provider.baseURL = server.URL

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestOpenAIProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", "gpt-4o-mini", 50*time.Millisecond)
	provider.baseURL = server.URL

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestGeminiProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, 200, req.GenerationConfig.MaxOutputTokens)
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Team A wins, 82% confidence due to recent form."}]}}]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", "gemini-1.5-flash", 5*time.Second)
	provider.baseURL = server.URL

	text, err := provider.Complete(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Team A wins, 82% confidence due to recent form.", text)
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	provider := NewGeminiProvider("", "gemini-1.5-flash", 5*time.Second)

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var confErr *ConfigurationError
	assert.True(t, errors.As(err, &confErr))
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider("test-key", "gemini-1.5-flash", 5*time.Second)
	provider.baseURL = server.URL

	_, err := provider.Complete(context.Background(), testPrompt)
	require.Error(t, err)

	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
}
