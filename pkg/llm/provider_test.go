package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/devscope/pkg/config"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system text", req.Messages[0].Content)
		assert.Equal(t, "user text", req.Messages[1].Content)
		assert.InEpsilon(t, 0.2, req.Temperature, 0.001)

		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "generated text"}},
			},
			Usage: openai.Usage{PromptTokens: 120, CompletionTokens: 40},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck // test server
	}))
	defer server.Close()

	p := NewOpenAIProvider(config.LLMConfig{
		Endpoint: server.URL + "/v1",
		APIKey:   "test-key",
		Model:    "gpt-4o",
	}, "openai")

	resp, err := p.Complete(context.Background(), Request{
		System:      "system text",
		User:        "user text",
		Temperature: 0.2,
		MaxTokens:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", resp.Text)
	assert.Equal(t, 120, resp.InputTokens)
	assert.Equal(t, 40, resp.OutputTokens)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, "openai/gpt-4o", p.Name())
}

func TestOpenAIProvider_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewOpenAIProvider(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "k", Model: "gpt-4o"}, "openai")

	_, err := p.Complete(context.Background(), Request{User: "hello"})
	require.Error(t, err)
	assert.True(t, IsCompletionError(err), "provider failures must be completion errors")

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "openai", ce.Provider)
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`)) //nolint:errcheck // test server
	}))
	defer server.Close()

	p := NewOpenAIProvider(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "k", Model: "gpt-4o"}, "openai")

	_, err := p.Complete(context.Background(), Request{User: "hello"})
	require.Error(t, err)
	assert.True(t, IsCompletionError(err))
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIProvider_Complete_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	p := NewOpenAIProvider(config.LLMConfig{Endpoint: server.URL + "/v1", APIKey: "k", Model: "gpt-4o"}, "openai")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Complete(ctx, Request{User: "hello"})
	require.Error(t, err)
	assert.True(t, IsCompletionError(err), "timeouts surface as completion errors")
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("openai", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: "openai", APIKey: "k", Model: "gpt-4o"})
		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o", p.Name())
	})

	t.Run("openrouter gets default endpoint", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: "openrouter", APIKey: "k", Model: "qwen"})
		require.NoError(t, err)
		assert.Equal(t, "openrouter/qwen", p.Name())
	})

	t.Run("claude", func(t *testing.T) {
		p, err := NewProvider(ctx, config.LLMConfig{Provider: "claude", APIKey: "k", Model: "claude-sonnet-4-20250514"})
		require.NoError(t, err)
		assert.Equal(t, "claude/claude-sonnet-4-20250514", p.Name())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewProvider(ctx, config.LLMConfig{Provider: "openai", Model: "gpt-4o"})
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewProvider(ctx, config.LLMConfig{Provider: "watson", APIKey: "k", Model: "m"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown llm provider")
	})
}

func TestIsCompletionError(t *testing.T) {
	assert.True(t, IsCompletionError(&Error{Provider: "openai", Err: errors.New("boom")}))
	assert.False(t, IsCompletionError(errors.New("boom")))
	assert.False(t, IsCompletionError(nil))
}
