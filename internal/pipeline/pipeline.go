package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/ferrerallan/christmas-card-chain/internal/redact"
	"github.com/google/uuid"
)

// ArtifactKey is the output key reported for the artifact stage.
const ArtifactKey = "artifact"

// Renderer converts final text and a title into a byte payload.
type Renderer interface {
	Render(text, title string) ([]byte, error)
}

// ArtifactStage is an optional terminal stage that renders one text value
// into bytes after all model stages have succeeded.
type ArtifactStage struct {
	// TextKey names the working-set value to render.
	TextKey string

	// Title derives the artifact title from the working set. Optional.
	Title func(values map[string]string) string

	Renderer Renderer
}

// Result is the outcome of a successful run.
type Result struct {
	RunID string

	// Values holds only the configured final output keys.
	Values map[string]string

	// Artifact is set when an artifact stage is configured.
	Artifact []byte
}

// Pipeline executes stages sequentially. It is immutable after New and safe
// for concurrent use; every Run owns a private working set.
type Pipeline struct {
	logger    *slog.Logger
	stages    []Stage
	inputKeys []string
	finalKeys []string
	finalSet  bool
	artifact  *ArtifactStage
	observers []Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithInputKeys declares the keys callers supply to Run. When set, New
// verifies that every stage variable, final key and artifact text key is
// satisfiable from the inputs plus earlier stage outputs.
func WithInputKeys(keys ...string) Option {
	return func(p *Pipeline) {
		p.inputKeys = slices.Clone(keys)
	}
}

// WithFinalKeys sets the keys returned in Result.Values. Without this option
// the last stage's output key is returned.
func WithFinalKeys(keys ...string) Option {
	return func(p *Pipeline) {
		p.finalKeys = slices.Clone(keys)
		p.finalSet = true
	}
}

// WithArtifact appends a terminal rendering stage.
func WithArtifact(a ArtifactStage) Option {
	return func(p *Pipeline) {
		p.artifact = &a
	}
}

// WithObserver registers an observer for stage events.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// New assembles and validates a pipeline. All definition problems are
// reported here as *ConfigError rather than at run time.
func New(logger *slog.Logger, stages []Stage, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		return nil, configErrorf("logger cannot be nil")
	}

	p := &Pipeline{
		logger: logger,
		stages: slices.Clone(stages),
	}
	for _, opt := range opts {
		opt(p)
	}

	if !p.finalSet && len(p.stages) > 0 {
		p.finalKeys = []string{p.stages[len(p.stages)-1].OutputKey}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Pipeline) validate() error {
	declared := len(p.inputKeys) > 0
	available := make(map[string]bool, len(p.inputKeys)+len(p.stages))
	for _, k := range p.inputKeys {
		available[k] = true
	}
	produced := make(map[string]int, len(p.stages))

	for i, st := range p.stages {
		switch {
		case st.Template == nil:
			return configErrorf("stage %d has no template", i)
		case st.Backend == nil:
			return configErrorf("stage %d has no backend", i)
		case st.OutputKey == "":
			return configErrorf("stage %d has no output key", i)
		}

		vars := st.Template.Variables()
		if slices.Contains(vars, st.OutputKey) {
			return configErrorf("stage %d output %q is also one of its own variables", i, st.OutputKey)
		}
		if prev, ok := produced[st.OutputKey]; ok {
			return configErrorf("stage %d output %q overwrites the output of stage %d", i, st.OutputKey, prev)
		}
		if slices.Contains(p.inputKeys, st.OutputKey) {
			return configErrorf("stage %d output %q overwrites an input value", i, st.OutputKey)
		}

		if declared {
			for _, v := range vars {
				if !available[v] {
					return configErrorf("stage %d (%s) requires %q, which is neither an input nor an earlier output",
						i, st.OutputKey, v)
				}
			}
		}

		produced[st.OutputKey] = i
		available[st.OutputKey] = true
	}

	if p.artifact != nil {
		if p.artifact.Renderer == nil {
			return configErrorf("artifact stage has no renderer")
		}
		if p.artifact.TextKey == "" {
			return configErrorf("artifact stage has no text key")
		}
		if declared && !available[p.artifact.TextKey] {
			return configErrorf("artifact text key %q is never produced", p.artifact.TextKey)
		}
	}

	if declared {
		for _, k := range p.finalKeys {
			if !available[k] {
				return configErrorf("final output %q is never produced", k)
			}
		}
	}

	return nil
}

// Stages returns a copy of the configured stages.
func (p *Pipeline) Stages() []Stage {
	return slices.Clone(p.stages)
}

// FinalKeys returns the keys a successful Run reports.
func (p *Pipeline) FinalKeys() []string {
	return slices.Clone(p.finalKeys)
}

// Run executes every stage in order against a working set seeded from
// initial. It returns a *StageError for the first failing stage, or a
// *ConfigError when a final output key was never produced. The pipeline
// adds no randomness of its own.
func (p *Pipeline) Run(ctx context.Context, initial map[string]string) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	working := make(map[string]string, len(initial)+len(p.stages))
	maps.Copy(working, initial)

	logger.InfoContext(ctx, "Pipeline run started",
		"stage_count", len(p.stages),
		"input_keys", sortedKeys(working))
	runStart := time.Now()

	for i, st := range p.stages {
		event := StageEvent{
			RunID:     runID,
			Index:     i,
			OutputKey: st.OutputKey,
			Backend:   st.Backend.Name(),
			Available: sortedKeys(working),
		}
		p.notifyStarted(ctx, event)

		logger.DebugContext(ctx, "Executing stage",
			"stage_index", i,
			"output_key", st.OutputKey,
			"backend", event.Backend,
			"template", st.Template.Name())

		start := time.Now()
		key, value, err := st.Execute(ctx, working)
		event.Duration = time.Since(start)
		event.Err = err
		p.notifyFinished(ctx, event)

		if err != nil {
			stageErr := &StageError{Index: i, OutputKey: st.OutputKey, Err: err}
			logger.ErrorContext(ctx, "Stage failed",
				"stage_index", i,
				"output_key", st.OutputKey,
				"backend", event.Backend,
				"error_kind", string(stageErr.Kind()),
				"error", redact.Error(err),
				"duration_ms", event.Duration.Milliseconds())
			return nil, stageErr
		}

		working[key] = value
		logger.InfoContext(ctx, "Stage completed",
			"stage_index", i,
			"output_key", key,
			"backend", event.Backend,
			"output_length", len(value),
			"duration_ms", event.Duration.Milliseconds())
	}

	values := make(map[string]string, len(p.finalKeys))
	for _, k := range p.finalKeys {
		v, ok := working[k]
		if !ok {
			err := configErrorf("final output %q was never produced", k)
			logger.ErrorContext(ctx, "Pipeline run failed", "error", err)
			return nil, err
		}
		values[k] = v
	}

	result := &Result{RunID: runID, Values: values}

	if p.artifact != nil {
		artifact, err := p.renderArtifact(ctx, runID, working)
		if err != nil {
			logger.ErrorContext(ctx, "Artifact stage failed",
				"stage_index", len(p.stages),
				"error_kind", string(KindOf(err)),
				"error", redact.Error(err))
			return nil, &StageError{Index: len(p.stages), OutputKey: ArtifactKey, Err: err}
		}
		result.Artifact = artifact
	}

	logger.InfoContext(ctx, "Pipeline run completed",
		"duration_ms", time.Since(runStart).Milliseconds(),
		"artifact_bytes", len(result.Artifact))

	return result, nil
}

func (p *Pipeline) renderArtifact(ctx context.Context, runID string, working map[string]string) ([]byte, error) {
	event := StageEvent{
		RunID:     runID,
		Index:     len(p.stages),
		OutputKey: ArtifactKey,
		Backend:   "renderer",
		Available: sortedKeys(working),
	}
	p.notifyStarted(ctx, event)

	start := time.Now()
	artifact, err := p.doRender(working)
	event.Duration = time.Since(start)
	event.Err = err
	p.notifyFinished(ctx, event)

	return artifact, err
}

func (p *Pipeline) doRender(working map[string]string) ([]byte, error) {
	text, ok := working[p.artifact.TextKey]
	if !ok {
		return nil, configErrorf("artifact text key %q was never produced", p.artifact.TextKey)
	}

	var title string
	if p.artifact.Title != nil {
		title = p.artifact.Title(maps.Clone(working))
	}

	artifact, err := p.artifact.Renderer.Render(text, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return artifact, nil
}

func (p *Pipeline) notifyStarted(ctx context.Context, event StageEvent) {
	for _, o := range p.observers {
		o.StageStarted(ctx, event)
	}
}

func (p *Pipeline) notifyFinished(ctx context.Context, event StageEvent) {
	for _, o := range p.observers {
		o.StageFinished(ctx, event)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
