// Package wizard runs the requirement-to-code stages on top of the inference
// client and the artifact normalizer.
//
// Stages are independent calls. Each returns a Result by value; callers carry
// results forward explicitly (see Handoff) instead of sharing mutable state.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/inference"
	"github.com/pithecene-io/reqforge/log"
	"github.com/pithecene-io/reqforge/metrics"
	"github.com/pithecene-io/reqforge/types"
)

// ErrMissingInput is returned when a stage is started without the inputs it
// needs. The model is not invoked.
var ErrMissingInput = errors.New("missing required input")

// ErrNoTestSource is returned when the tests stage yields only whitespace.
var ErrNoTestSource = errors.New("model returned no test source")

// Invoker generates text for a request.
// *inference.Client satisfies this interface.
type Invoker interface {
	Generate(ctx context.Context, req inference.Request) (inference.Generation, error)
}

// Config configures a Wizard.
type Config struct {
	// Invoker performs generation (required).
	Invoker Invoker
	// Model names the model in the code prompt persona (default inference.DefaultModel).
	Model string
	// Options are sampling options for every stage. The API spec stage uses
	// inference.DefaultOptions when this is zero.
	Options inference.Options
	// Stop lists optional stop sequences.
	Stop []string
	// Logger receives stage logs (default: discard).
	Logger *log.Logger
	// Metrics receives normalization counters (optional).
	Metrics *metrics.Collector
}

// Result is the outcome of one successful stage.
type Result struct {
	Stage types.Stage `json:"stage" yaml:"stage"`
	// Artifact is the normalized output. For the tests stage the kind is empty
	// and Content holds the trimmed test source.
	Artifact artifact.Artifact `json:"artifact" yaml:"artifact"`
	Attempts int               `json:"attempts" yaml:"attempts"`
	Duration time.Duration     `json:"duration" yaml:"duration"`
}

// Wizard executes stages.
type Wizard struct {
	invoker Invoker
	model   string
	options inference.Options
	stop    []string
	logger  *log.Logger
	metrics *metrics.Collector
}

// New creates a Wizard.
func New(cfg Config) (*Wizard, error) {
	if cfg.Invoker == nil {
		return nil, errors.New("wizard: invoker is required")
	}
	if cfg.Model == "" {
		cfg.Model = inference.DefaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Wizard{
		invoker: cfg.Invoker,
		model:   cfg.Model,
		options: cfg.Options,
		stop:    cfg.Stop,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// generate invokes the model for stage and logs the outcome.
func (w *Wizard) generate(ctx context.Context, stage types.Stage, prompt string, opts inference.Options) (inference.Generation, error) {
	logger := w.logger.WithStage(stage)
	logger.Info("stage started", nil)

	gen, err := w.invoker.Generate(ctx, inference.Request{
		Prompt:  prompt,
		Model:   w.model,
		Options: opts,
		Stop:    w.stop,
	})
	if err != nil {
		logger.Error("stage failed", map[string]any{
			"error":       err.Error(),
			"remediation": inference.Remediation(err),
		})
		return inference.Generation{}, fmt.Errorf("%s stage: %w", stage, err)
	}
	return gen, nil
}

// normalize validates text as kind and builds the stage result.
func (w *Wizard) normalize(stage types.Stage, kind artifact.Kind, text string, gen inference.Generation) (Result, error) {
	a, err := artifact.Normalize(text, kind)
	if err != nil {
		w.metrics.IncArtifactInvalid(string(kind))
		w.logger.WithStage(stage).Warn("artifact rejected", map[string]any{"error": err.Error()})
		return Result{}, fmt.Errorf("%s stage: %w", stage, err)
	}
	w.metrics.IncArtifactValid()
	w.completed(stage, gen)
	return Result{Stage: stage, Artifact: a, Attempts: gen.Attempts, Duration: gen.Duration}, nil
}

func (w *Wizard) completed(stage types.Stage, gen inference.Generation) {
	w.logger.WithStage(stage).Info("stage completed", map[string]any{
		"attempts":    gen.Attempts,
		"duration_ms": gen.Duration.Milliseconds(),
	})
}

func missing(stage types.Stage, what string) error {
	return fmt.Errorf("%s stage: %w: %s", stage, ErrMissingInput, what)
}

// Text returns the artifact content as exported.
func (r Result) Text() string {
	return r.Artifact.Content
}
