package cmd

import (
	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/types"
	"github.com/pithecene-io/reqforge/wizard"
)

// StageResponse is the rendered outcome of a stage command.
type StageResponse struct {
	SessionID   string        `json:"session_id" yaml:"session_id"`
	Stage       types.Stage   `json:"stage" yaml:"stage"`
	Kind        artifact.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Attempts    int           `json:"attempts" yaml:"attempts"`
	DurationMs  int64         `json:"duration_ms" yaml:"duration_ms"`
	StoragePath string        `json:"storage_path,omitempty" yaml:"storage_path,omitempty"`
	Sections    []string      `json:"sections,omitempty" yaml:"sections,omitempty"`
	NextStage   types.Stage   `json:"next_stage,omitempty" yaml:"next_stage,omitempty"`
	Content     string        `json:"content" yaml:"content"`

	result wizard.Result
}

// Text returns the artifact content for --format text.
func (r StageResponse) Text() string {
	return r.Content
}

func newStageResponse(h *wizard.Handoff, res wizard.Result, storagePath string) StageResponse {
	return StageResponse{
		SessionID:   h.Session.SessionID,
		Stage:       res.Stage,
		Kind:        res.Artifact.Kind,
		Attempts:    res.Attempts,
		DurationMs:  res.Duration.Milliseconds(),
		StoragePath: storagePath,
		Sections:    res.Artifact.SectionNames(),
		NextStage:   res.Stage.Next(),
		Content:     res.Artifact.Content,
		result:      res,
	}
}

// DatabaseResponse is the rendered outcome of the database command.
type DatabaseResponse struct {
	SessionID string      `json:"session_id" yaml:"session_id"`
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Guidance  string      `json:"guidance" yaml:"guidance"`
	NextStage types.Stage `json:"next_stage" yaml:"next_stage"`
}

// StatusResponse describes the handoff state.
type StatusResponse struct {
	SessionID string            `json:"session_id" yaml:"session_id"`
	Stage     types.Stage       `json:"stage" yaml:"stage"`
	Language  string            `json:"language,omitempty" yaml:"language,omitempty"`
	Database  string            `json:"database,omitempty" yaml:"database,omitempty"`
	Completed []types.Stage     `json:"completed" yaml:"completed"`
	Exports   map[string]string `json:"exports,omitempty" yaml:"exports,omitempty"`
	SpecTitle string            `json:"spec_title,omitempty" yaml:"spec_title,omitempty"`
	SpecPaths []string          `json:"spec_paths,omitempty" yaml:"spec_paths,omitempty"`
	Sections  []string          `json:"sections,omitempty" yaml:"sections,omitempty"`
}

func newStatusResponse(h *wizard.Handoff) StatusResponse {
	resp := StatusResponse{
		SessionID: h.Session.SessionID,
		Stage:     h.Session.Stage,
		Language:  h.Language,
		Database:  h.Database,
		Completed: []types.Stage{},
		Exports:   h.Exports,
	}
	done := map[types.Stage]bool{
		types.StageDiagram:  h.Diagram != "",
		types.StageAPISpec:  h.Spec != "",
		types.StageTests:    h.Tests != "",
		types.StageDatabase: h.Database != "",
		types.StageCode:     h.Code != "",
	}
	for _, st := range types.Stages() {
		if done[st] {
			resp.Completed = append(resp.Completed, st)
		}
	}
	if summary, ok := wizard.SummarizeSpec(h.Spec); ok {
		resp.SpecTitle = summary.Title
		resp.SpecPaths = summary.Paths
	}
	for _, s := range h.Sections {
		resp.Sections = append(resp.Sections, s.Name)
	}
	return resp
}
