package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float32  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	b, err := New(logger.NewNop(), config.OpenAIConfig{
		APIKey:      "sk-test",
		Model:       "gpt-3.5-turbo",
		BaseURL:     server.URL + "/v1",
		Temperature: 0.7,
		MaxTokens:   300,
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(logger.NewNop(), config.OpenAIConfig{Model: "gpt-3.5-turbo"})
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "API key")

	_, err = New(logger.NewNop(), config.OpenAIConfig{APIKey: "sk-test"})
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "model")

	_, err = New(nil, config.OpenAIConfig{APIKey: "sk-test", Model: "m"})
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
}

func TestGenerateSendsSingleUserMessage(t *testing.T) {
	t.Parallel()

	var got chatRequest
	var path, auth string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Dear Ana, Merry Christmas!"}, "finish_reason": "stop"}]
		}`)
	})

	out, err := b.Generate(context.Background(), llm.Request{Prompt: "Write a card for Ana", Stop: []string{"###"}})
	require.NoError(t, err)

	assert.Equal(t, "Dear Ana, Merry Christmas!", out)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Write a card for Ana", got.Messages[0].Content)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
	assert.Equal(t, 300, got.MaxTokens)
	assert.Equal(t, []string{"###"}, got.Stop)
	assert.Equal(t, "openai", b.Name())
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail string
		wantIs     error
	}{
		{
			name:       "api error body",
			status:     http.StatusUnauthorized,
			body:       `{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Incorrect API key",
		},
		{
			name:       "plain text body",
			status:     http.StatusBadGateway,
			body:       `upstream unavailable`,
			wantStatus: http.StatusBadGateway,
			wantDetail: "upstream unavailable",
		},
		{
			name:       "no choices",
			status:     http.StatusOK,
			body:       `{"id": "chatcmpl-1", "choices": []}`,
			wantStatus: http.StatusOK,
			wantDetail: "response contained no choices",
			wantIs:     llm.ErrInvalidResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := b.Generate(context.Background(), llm.Request{Prompt: "hi"})
			require.Error(t, err)

			var providerErr *llm.ProviderError
			require.True(t, errors.As(err, &providerErr))
			assert.Equal(t, "openai", providerErr.Provider)
			assert.Equal(t, tc.wantStatus, providerErr.Status)
			assert.Equal(t, tc.wantDetail, providerErr.Detail)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	b, err := New(logger.NewNop(), config.OpenAIConfig{APIKey: "sk-test", Model: "m", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = b.Generate(context.Background(), llm.Request{Prompt: "hi"})

	var providerErr *llm.ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, 0, providerErr.Status)
}
