// Package azure implements llm.Backend for a chat-completions endpoint that
// is called with a hand-built JSON body and an api-key header, as exposed by
// Azure-hosted model deployments.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/hashicorp/go-cleanhttp"
)

// ProviderName identifies this backend in logs, metrics and errors.
const ProviderName = "azure"

// SystemMessage is sent ahead of every prompt.
const SystemMessage = "You are a helpful assistant."

// maxErrorBody caps how much of a failed response body is kept in errors.
const maxErrorBody = 4096

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
	Stop        []string  `json:"stop,omitempty"`
}

type responseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message *responseMessage `json:"message"`
	} `json:"choices"`
}

// Option configures a Backend.
type Option func(*Backend)

// WithHTTPClient replaces the pooled HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		if c != nil {
			b.httpClient = c
		}
	}
}

// Backend posts chat requests to a fixed endpoint.
type Backend struct {
	logger      *slog.Logger
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float32
	topP        float32
	maxTokens   int
}

var _ llm.Backend = (*Backend)(nil)

// New creates a Backend. Endpoint and API key are required.
func New(logger *slog.Logger, cfg config.AzureConfig, opts ...Option) (*Backend, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", llm.ErrInvalidConfig)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: azure endpoint cannot be empty", llm.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: azure API key cannot be empty", llm.ErrInvalidConfig)
	}

	b := &Backend{
		logger:      logger.With("component", "azure_backend"),
		httpClient:  cleanhttp.DefaultPooledClient(),
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Name implements llm.Backend.
func (b *Backend) Name() string {
	return ProviderName
}

// Generate implements llm.Backend. Exactly one HTTP request is made.
func (b *Backend) Generate(ctx context.Context, req llm.Request) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: b.model,
		Messages: []message{
			{Role: "system", Content: SystemMessage},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: b.temperature,
		TopP:        b.topP,
		MaxTokens:   b.maxTokens,
		Stop:        req.Stop,
	})
	if err != nil {
		return "", llm.NewProviderError(ProviderName, 0, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", llm.NewProviderError(ProviderName, 0, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", b.apiKey)

	b.logger.DebugContext(ctx, "Posting chat request",
		"model", b.model,
		"prompt_length", len(req.Prompt))

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", llm.NewProviderError(ProviderName, 0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		b.logger.WarnContext(ctx, "Chat endpoint returned non-success status",
			"status", resp.StatusCode)
		return "", llm.NewProviderError(ProviderName, resp.StatusCode, string(body), nil)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", llm.NewProviderError(ProviderName, resp.StatusCode, "malformed response body",
			fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err))
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return "", llm.NewProviderError(ProviderName, resp.StatusCode, "response has no choices[0].message",
			llm.ErrInvalidResponse)
	}

	if decoded.Choices[0].Message.Content == nil {
		return "", llm.NewProviderError(ProviderName, resp.StatusCode, "response has no choices[0].message.content",
			llm.ErrInvalidResponse)
	}

	return *decoded.Choices[0].Message.Content, nil
}
