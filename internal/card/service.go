package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/pdf"
	"github.com/ferrerallan/christmas-card-chain/internal/pipeline"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/azure"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/gemini"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/openai"
	"github.com/ferrerallan/christmas-card-chain/internal/prompt"
	"github.com/gosimple/slug"
)

// Output keys produced by the pipeline stages.
const (
	KeyBaseMessage  = "base_message"
	KeyFinalMessage = "final_message"
)

// Card is a generated greeting card.
type Card struct {
	RunID    string
	Message  string
	PDF      []byte
	FileName string
}

// Generator creates cards from forms.
type Generator interface {
	Generate(ctx context.Context, form Form) (*Card, error)
}

// Recorder receives the outcome of every Generate call.
type Recorder interface {
	CardGenerated(err error)
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	base      llm.Backend
	enrich    llm.Backend
	renderer  pipeline.Renderer
	observers []pipeline.Observer
	recorder  Recorder
}

// WithBackends overrides the backends that would be built from configuration.
func WithBackends(base, enrich llm.Backend) Option {
	return func(o *serviceOptions) {
		o.base = base
		o.enrich = enrich
	}
}

// WithRenderer overrides the PDF renderer.
func WithRenderer(r pipeline.Renderer) Option {
	return func(o *serviceOptions) {
		o.renderer = r
	}
}

// WithObserver registers a pipeline observer.
func WithObserver(obs pipeline.Observer) Option {
	return func(o *serviceOptions) {
		o.observers = append(o.observers, obs)
	}
}

// WithRecorder registers a recorder for card outcomes.
func WithRecorder(r Recorder) Option {
	return func(o *serviceOptions) {
		o.recorder = r
	}
}

// Service generates greeting cards. It is safe for concurrent use.
type Service struct {
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	timeout  time.Duration
	recorder Recorder
}

var _ Generator = (*Service)(nil)

// NewService builds the backends selected in cfg, loads the prompt templates
// and assembles the pipeline. Missing credentials for a selected provider
// are reported here.
func NewService(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts ...Option) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", llm.ErrInvalidConfig)
	}

	o := serviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	var err error
	if o.base == nil {
		if o.base, err = BuildBackend(ctx, logger, cfg.Pipeline.BaseProvider, cfg); err != nil {
			return nil, fmt.Errorf("base message backend: %w", err)
		}
	}
	if o.enrich == nil {
		if o.enrich, err = BuildBackend(ctx, logger, cfg.Pipeline.EnrichProvider, cfg); err != nil {
			return nil, fmt.Errorf("enrichment backend: %w", err)
		}
	}
	if o.renderer == nil {
		o.renderer = pdf.NewRenderer()
	}

	templates, err := prompt.Load(cfg.Pipeline.PromptTemplatePath)
	if err != nil {
		return nil, err
	}
	baseTmpl, err := templates.Get(prompt.BaseMessage)
	if err != nil {
		return nil, err
	}
	enrichTmpl, err := templates.Get(prompt.EnrichMessage)
	if err != nil {
		return nil, err
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithInputKeys(InputKeys()...),
		pipeline.WithFinalKeys(KeyFinalMessage),
		pipeline.WithArtifact(pipeline.ArtifactStage{
			TextKey:  KeyFinalMessage,
			Title:    func(values map[string]string) string { return Title(values[KeyName]) },
			Renderer: o.renderer,
		}),
	}
	for _, obs := range o.observers {
		pipelineOpts = append(pipelineOpts, pipeline.WithObserver(obs))
	}

	p, err := pipeline.New(logger, []pipeline.Stage{
		{Template: baseTmpl, Backend: o.base, OutputKey: KeyBaseMessage},
		{Template: enrichTmpl, Backend: o.enrich, OutputKey: KeyFinalMessage},
	}, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Card service initialized",
		"base_backend", o.base.Name(),
		"enrich_backend", o.enrich.Name(),
		"templates", templates.Names())

	return &Service{
		logger:   logger.With("component", "card_service"),
		pipeline: p,
		timeout:  time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
		recorder: o.recorder,
	}, nil
}

// BuildBackend constructs the backend registered under provider.
func BuildBackend(ctx context.Context, logger *slog.Logger, provider string, cfg *config.Config) (llm.Backend, error) {
	switch provider {
	case openai.ProviderName:
		return openai.New(logger, cfg.OpenAI)
	case azure.ProviderName:
		return azure.New(logger, cfg.Azure)
	case gemini.ProviderName:
		return gemini.New(ctx, logger, cfg.Gemini)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", llm.ErrInvalidConfig, provider)
	}
}

// Generate validates form, runs both stages and renders the PDF.
func (s *Service) Generate(ctx context.Context, form Form) (card *Card, err error) {
	if s.recorder != nil {
		defer func() { s.recorder.CardGenerated(err) }()
	}

	if err := form.Validate(); err != nil {
		s.logger.DebugContext(ctx, "Rejected invalid card form", "error", err)
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	normalized := form.Normalized()
	result, err := s.pipeline.Run(ctx, normalized.Values())
	if err != nil {
		return nil, err
	}

	card = &Card{
		RunID:    result.RunID,
		Message:  result.Values[KeyFinalMessage],
		PDF:      result.Artifact,
		FileName: FileName(normalized.Name),
	}

	s.logger.InfoContext(ctx, "Card generated",
		"run_id", card.RunID,
		"message_length", len(card.Message),
		"pdf_bytes", len(card.PDF))

	return card, nil
}

// Title returns the PDF title for a recipient.
func Title(name string) string {
	return "Christmas Card for " + name
}

// FileName returns the download name for a recipient's card.
func FileName(name string) string {
	s := slug.Make(name)
	if s == "" {
		s = "card"
	}
	return "christmas_card_" + s + ".pdf"
}
