// Package openai implements llm.Backend on the OpenAI chat completions API
// using the github.com/sashabaranov/go-openai client.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	goopenai "github.com/sashabaranov/go-openai"
)

// ProviderName identifies this backend in logs, metrics and errors.
const ProviderName = "openai"

// Option configures a Backend.
type Option func(*goopenai.ClientConfig)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *goopenai.ClientConfig) {
		cc.HTTPClient = c
	}
}

// Backend sends each prompt as a single user message to a chat model.
type Backend struct {
	logger      *slog.Logger
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ llm.Backend = (*Backend)(nil)

// New creates a Backend. The API key and model are required; temperature and
// max tokens are passed to the API as configured.
func New(logger *slog.Logger, cfg config.OpenAIConfig, opts ...Option) (*Backend, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", llm.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", llm.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: openai model cannot be empty", llm.ErrInvalidConfig)
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	for _, opt := range opts {
		opt(&clientConfig)
	}

	return &Backend{
		logger:      logger.With("component", "openai_backend"),
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name implements llm.Backend.
func (b *Backend) Name() string {
	return ProviderName
}

// Generate implements llm.Backend.
func (b *Backend) Generate(ctx context.Context, req llm.Request) (string, error) {
	b.logger.DebugContext(ctx, "Sending chat completion request",
		"model", b.model,
		"prompt_length", len(req.Prompt))

	resp, err := b.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: b.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
		Stop:        req.Stop,
	})
	if err != nil {
		return "", toProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.NewProviderError(ProviderName, http.StatusOK, "response contained no choices",
			llm.ErrInvalidResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func toProviderError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return llm.NewProviderError(ProviderName, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return llm.NewProviderError(ProviderName, reqErr.HTTPStatusCode, string(reqErr.Body), err)
	}

	return llm.NewProviderError(ProviderName, 0, "", err)
}
