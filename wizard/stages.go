package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/catalog"
	"github.com/pithecene-io/reqforge/inference"
	"github.com/pithecene-io/reqforge/prompt"
	"github.com/pithecene-io/reqforge/types"
)

// Diagram turns requirements into a styled sequence diagram.
func (w *Wizard) Diagram(ctx context.Context, requirements string) (Result, error) {
	if strings.TrimSpace(requirements) == "" {
		return Result{}, missing(types.StageDiagram, "requirements")
	}
	gen, err := w.generate(ctx, types.StageDiagram, prompt.Diagram(requirements), w.options)
	if err != nil {
		return Result{}, err
	}
	res, err := w.normalize(types.StageDiagram, artifact.KindDiagramMarkup, gen.Text, gen)
	if err != nil {
		return Result{}, err
	}
	res.Artifact.Content = ApplyDiagramStyle(res.Artifact.Content)
	return res, nil
}

// APISpec turns a diagram into an OpenAPI document.
func (w *Wizard) APISpec(ctx context.Context, diagram string) (Result, error) {
	if strings.TrimSpace(diagram) == "" {
		return Result{}, missing(types.StageAPISpec, "diagram")
	}
	opts := w.options
	if opts.IsZero() {
		opts = inference.DefaultOptions()
	}
	gen, err := w.generate(ctx, types.StageAPISpec, prompt.OpenAPI(diagram), opts)
	if err != nil {
		return Result{}, err
	}
	return w.normalize(types.StageAPISpec, artifact.KindAPISpecDocument, gen.Text, gen)
}

// Tests generates unit tests for spec in the given language.
func (w *Wizard) Tests(ctx context.Context, spec, language string) (Result, error) {
	if strings.TrimSpace(spec) == "" {
		return Result{}, missing(types.StageTests, "openapi spec")
	}
	lang, err := catalog.LookupLanguage(language)
	if err != nil {
		return Result{}, fmt.Errorf("%s stage: %w", types.StageTests, err)
	}
	gen, err := w.generate(ctx, types.StageTests, prompt.Tests(spec, lang), w.options)
	if err != nil {
		return Result{}, err
	}
	text := strings.TrimSpace(gen.Text)
	if text == "" {
		return Result{}, fmt.Errorf("%s stage: %w", types.StageTests, ErrNoTestSource)
	}
	w.completed(types.StageTests, gen)
	return Result{
		Stage:    types.StageTests,
		Artifact: artifact.Artifact{Content: text},
		Attempts: gen.Attempts,
		Duration: gen.Duration,
	}, nil
}

// SelectDatabase validates a database choice against the catalog. The API document,
// tests and language gathered so far must be present.
func SelectDatabase(h *Handoff, database string) (catalog.Database, error) {
	if h == nil || strings.TrimSpace(h.Spec) == "" || strings.TrimSpace(h.Tests) == "" || h.Language == "" {
		return catalog.Database{}, missing(types.StageDatabase, "spec, tests and language")
	}
	db, err := catalog.LookupDatabase(database)
	if err != nil {
		return catalog.Database{}, fmt.Errorf("%s stage: %w", types.StageDatabase, err)
	}
	return db, nil
}

// Code generates a sectioned implementation.
func (w *Wizard) Code(ctx context.Context, spec, tests, language, database string) (Result, error) {
	if strings.TrimSpace(spec) == "" || strings.TrimSpace(tests) == "" {
		return Result{}, missing(types.StageCode, "spec and tests")
	}
	lang, err := catalog.LookupLanguage(language)
	if err != nil {
		return Result{}, fmt.Errorf("%s stage: %w", types.StageCode, err)
	}
	db, err := catalog.LookupDatabase(database)
	if err != nil {
		return Result{}, fmt.Errorf("%s stage: %w", types.StageCode, err)
	}
	gen, err := w.generate(ctx, types.StageCode, prompt.Code(w.model, spec, tests, lang, db), w.options)
	if err != nil {
		return Result{}, err
	}
	return w.normalize(types.StageCode, artifact.KindCodeBundle, StripPreamble(gen.Text), gen)
}
