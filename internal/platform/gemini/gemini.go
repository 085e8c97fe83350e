package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"google.golang.org/genai"
)

// ProviderName identifies this backend in logs, metrics and errors.
const ProviderName = "gemini"

// Option configures a Backend.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used by the genai client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// Backend implements llm.Backend using the Gemini generateContent API.
type Backend struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	temperature float32
	topP        float32
	maxTokens   int
}

var _ llm.Backend = (*Backend)(nil)

// New creates a Gemini backend.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: Gemini settings; API key and model are required
//
// Returns:
//   - A ready Backend, or an error wrapping llm.ErrInvalidConfig
func New(ctx context.Context, logger *slog.Logger, cfg config.GeminiConfig, opts ...Option) (*Backend, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", llm.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", llm.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: gemini model name cannot be empty", llm.ErrInvalidConfig)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", llm.ErrInvalidConfig, err)
	}

	return &Backend{
		logger:      logger.With("component", "gemini_backend"),
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name implements llm.Backend.
func (b *Backend) Name() string {
	return ProviderName
}

// Generate sends the prompt as a single user turn and returns the text of
// the first candidate.
func (b *Backend) Generate(ctx context.Context, req llm.Request) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:   genai.Ptr(b.temperature),
		TopP:          genai.Ptr(b.topP),
		StopSequences: req.Stop,
	}
	if b.maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(b.maxTokens)
	}

	b.logger.DebugContext(ctx, "Making Gemini API call",
		"model", b.model,
		"prompt_length", len(req.Prompt))

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		return "", b.wrapError(ctx, err)
	}

	text, err := extractText(resp)
	if err != nil {
		b.logger.WarnContext(ctx, "Gemini API returned unusable response", "error", err)
		return "", llm.NewProviderError(ProviderName, http.StatusOK, "", err)
	}

	b.logger.DebugContext(ctx, "Gemini API call successful", "output_length", len(text))
	return text, nil
}

func (b *Backend) wrapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return llm.NewProviderError(ProviderName, 0, "", ctxErr)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = apiErr.Status
		}
		return llm.NewProviderError(ProviderName, apiErr.Code, detail, err)
	}

	return llm.NewProviderError(ProviderName, 0, "", err)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", llm.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", llm.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", llm.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: candidate blocked", llm.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", llm.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: candidate has no text", llm.ErrInvalidResponse)
	}

	return sb.String(), nil
}
