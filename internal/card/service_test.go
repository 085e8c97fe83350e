package card

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ferrerallan/christmas-card-chain/internal/config"
	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/mocks"
	"github.com/ferrerallan/christmas-card-chain/internal/pipeline"
	"github.com/ferrerallan/christmas-card-chain/internal/platform/logger"
	"github.com/ferrerallan/christmas-card-chain/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 300},
		Azure: config.AzureConfig{
			Endpoint: "https://example.test/chat", APIKey: "azure-key",
			Temperature: 0.7, TopP: 0.95, MaxTokens: 300,
		},
		Gemini:   config.GeminiConfig{APIKey: "gemini-key", Model: "gemini-2.0-flash"},
		Pipeline: config.PipelineConfig{BaseProvider: "openai", EnrichProvider: "azure", TimeoutSeconds: 30},
	}
}

type recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *recorder) CardGenerated(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func TestGenerateCard(t *testing.T) {
	t.Parallel()

	base := mocks.NewMockBackendWithResponse("openai", "Dear Ana, Merry Christmas!")
	enrich := mocks.NewMockBackendWithResponse("azure", "Dear Ana, Feliz Natal! Enjoy the ceia.")
	renderer := &mocks.MockRenderer{Output: []byte("%PDF-1.3 test")}
	rec := &recorder{}

	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(),
		WithBackends(base, enrich), WithRenderer(renderer), WithRecorder(rec))
	require.NoError(t, err)

	form := validForm()
	form.Hobbies = ""
	card, err := svc.Generate(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, "Dear Ana, Feliz Natal! Enjoy the ceia.", card.Message)
	assert.Equal(t, []byte("%PDF-1.3 test"), card.PDF)
	assert.Equal(t, "christmas_card_ana.pdf", card.FileName)
	assert.NotEmpty(t, card.RunID)

	basePrompt := base.Requests()[0].Prompt
	assert.Contains(t, basePrompt, "Recipient's name: Ana")
	assert.Contains(t, basePrompt, "Relationship with sender: Sister")
	assert.Contains(t, basePrompt, DefaultHobbies)
	assert.Contains(t, basePrompt, "Desired tone: Warm")
	assert.Contains(t, basePrompt, "Sender's name: João")

	enrichPrompt := enrich.Requests()[0].Prompt
	assert.Contains(t, enrichPrompt, `"Dear Ana, Merry Christmas!`)
	assert.Contains(t, enrichPrompt, "related to Brazil")

	assert.Equal(t, []mocks.RenderCall{{Text: card.Message, Title: "Christmas Card for Ana"}}, renderer.Calls())
	assert.Equal(t, []error{nil}, rec.errs)
}

func TestPipelineReportsOnlyFinalMessage(t *testing.T) {
	t.Parallel()

	base := mocks.NewMockBackendWithResponse("openai", "S1")
	enrich := mocks.NewMockBackendWithResponse("azure", "S2")
	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(),
		WithBackends(base, enrich), WithRenderer(&mocks.MockRenderer{Output: []byte("%PDF")}))
	require.NoError(t, err)

	assert.Equal(t, []string{KeyFinalMessage}, svc.pipeline.FinalKeys())

	form := Form{SenderName: "João", Name: "Ana", Relation: "Sister", Tone: ToneWarm, Region: "Brazil"}
	result, err := svc.pipeline.Run(context.Background(), form.Normalized().Values())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{KeyFinalMessage: "S2"}, result.Values)
	assert.Contains(t, enrich.Requests()[0].Prompt, "S1")
	assert.Contains(t, enrich.Requests()[0].Prompt, "Brazil")
}

func TestGenerateWithRealRenderer(t *testing.T) {
	t.Parallel()

	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(),
		WithBackends(
			mocks.NewMockBackendWithResponse("openai", "Dear Ana"),
			mocks.NewMockBackendWithResponse("azure", "Dear Ana, Feliz Natal! 🎄"),
		))
	require.NoError(t, err)

	card, err := svc.Generate(context.Background(), validForm())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(card.PDF), "%PDF-"))
}

func TestGenerateRejectsInvalidForm(t *testing.T) {
	t.Parallel()

	base := mocks.NewMockBackendWithResponse("openai", "x")
	rec := &recorder{}
	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(),
		WithBackends(base, mocks.NewMockBackendWithResponse("azure", "y")), WithRecorder(rec))
	require.NoError(t, err)

	form := validForm()
	form.Name = ""
	_, err = svc.Generate(context.Background(), form)

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, 0, base.CallCount())
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}

func TestGenerateProviderFailure(t *testing.T) {
	t.Parallel()

	enrich := mocks.NewMockBackendWithError("azure", llm.NewProviderError("azure", 500, "internal error", nil))
	renderer := &mocks.MockRenderer{}
	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(),
		WithBackends(mocks.NewMockBackendWithResponse("openai", "base"), enrich), WithRenderer(renderer))
	require.NoError(t, err)

	card, err := svc.Generate(context.Background(), validForm())
	assert.Nil(t, card)

	var stageErr *pipeline.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, 1, stageErr.Index)
	assert.Equal(t, pipeline.KindProvider, stageErr.Kind())
	assert.Empty(t, renderer.Calls())
}

func TestGenerateAppliesTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pipeline.TimeoutSeconds = 1

	var deadline time.Time
	var hasDeadline bool
	base := &mocks.MockBackend{GenerateFn: func(ctx context.Context, _ llm.Request) (string, error) {
		deadline, hasDeadline = ctx.Deadline()
		return "base", nil
	}}

	svc, err := NewService(context.Background(), logger.NewNop(), cfg,
		WithBackends(base, mocks.NewMockBackendWithResponse("azure", "final")),
		WithRenderer(&mocks.MockRenderer{Output: []byte("pdf")}))
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), validForm())
	require.NoError(t, err)
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestNewServiceBuildsConfiguredBackends(t *testing.T) {
	t.Parallel()

	obs := &countingObserver{}
	svc, err := NewService(context.Background(), logger.NewNop(), testConfig(), WithObserver(obs))
	require.NoError(t, err)

	stages := svc.pipeline.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, "openai", stages[0].Backend.Name())
	assert.Equal(t, "azure", stages[1].Backend.Name())
	assert.Equal(t, prompt.BaseMessage, stages[0].Template.Name())
	assert.Equal(t, prompt.EnrichMessage, stages[1].Template.Name())
}

func TestNewServiceMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Azure.APIKey = ""

	_, err := NewService(context.Background(), logger.NewNop(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "enrichment backend")
	assert.Equal(t, pipeline.KindConfiguration, pipeline.KindOf(err))
}

func TestNewServiceCustomTemplates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`templates:
  - name: base_message
    variables: [name, tone]
    text: "A {tone} note for {name}"
  - name: enrich_message
    variables: [base_message, region]
    text: "{base_message} from {region}"
`), 0o600))

	cfg := testConfig()
	cfg.Pipeline.PromptTemplatePath = path

	base := mocks.NewMockBackendWithResponse("openai", "hello")
	svc, err := NewService(context.Background(), logger.NewNop(), cfg,
		WithBackends(base, mocks.NewMockBackendWithResponse("azure", "hello from Brazil")),
		WithRenderer(&mocks.MockRenderer{Output: []byte("pdf")}))
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "A Warm note for Ana", base.Requests()[0].Prompt)
}

func TestNewServiceTemplateRequiresUnknownInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`templates:
  - name: base_message
    variables: [name, age]
    text: "{name} is {age}"
  - name: enrich_message
    variables: [base_message]
    text: "{base_message}"
`), 0o600))

	cfg := testConfig()
	cfg.Pipeline.PromptTemplatePath = path

	_, err := NewService(context.Background(), logger.NewNop(), cfg,
		WithBackends(mocks.NewMockBackendWithResponse("a", "x"), mocks.NewMockBackendWithResponse("b", "y")))

	var configErr *pipeline.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, err.Error(), `"age"`)
}

func TestBuildBackend(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{"openai", "azure", "gemini"} {
		b, err := BuildBackend(context.Background(), logger.NewNop(), provider, testConfig())
		require.NoError(t, err, provider)
		assert.Equal(t, provider, b.Name())
	}

	_, err := BuildBackend(context.Background(), logger.NewNop(), "cohere", testConfig())
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Ana":         "christmas_card_ana.pdf",
		"Ana Maria":   "christmas_card_ana-maria.pdf",
		"João":        "christmas_card_joao.pdf",
		"../etc/pass": "christmas_card_etc-pass.pdf",
		"!!!":         "christmas_card_card.pdf",
	}

	for name, want := range tests {
		assert.Equal(t, want, FileName(name), name)
	}
}

type countingObserver struct{}

func (countingObserver) StageStarted(context.Context, pipeline.StageEvent)  {}
func (countingObserver) StageFinished(context.Context, pipeline.StageEvent) {}
