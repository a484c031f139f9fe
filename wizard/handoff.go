package wizard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/reqforge/artifact"
	"github.com/pithecene-io/reqforge/types"
)

// Handoff is the state carried from one stage to the next between CLI
// invocations. It is persisted as msgpack.
type Handoff struct {
	Version      string             `msgpack:"version"`
	Session      types.SessionMeta  `msgpack:"session"`
	Requirements string             `msgpack:"requirements,omitempty"`
	Diagram      string             `msgpack:"diagram,omitempty"`
	Spec         string             `msgpack:"spec,omitempty"`
	Language     string             `msgpack:"language,omitempty"`
	Tests        string             `msgpack:"tests,omitempty"`
	Database     string             `msgpack:"database,omitempty"`
	Code         string             `msgpack:"code,omitempty"`
	Sections     []artifact.Section `msgpack:"sections,omitempty"`
	// Exports maps stage name to the storage path of its exported artifact.
	Exports map[string]string `msgpack:"exports,omitempty"`
}

// NewHandoff starts an empty handoff for a fresh session.
func NewHandoff() *Handoff {
	return &Handoff{
		Version: types.HandoffVersion,
		Session: *types.NewSessionMeta(types.StageDiagram),
	}
}

// Record stores the output of a completed stage and advances the session to
// the following stage. The last stage stays current.
func (h *Handoff) Record(r Result) {
	switch r.Stage {
	case types.StageDiagram:
		h.Diagram = r.Artifact.Content
	case types.StageAPISpec:
		h.Spec = r.Artifact.Content
	case types.StageTests:
		h.Tests = r.Artifact.Content
	case types.StageCode:
		h.Code = r.Artifact.Content
		h.Sections = r.Artifact.Sections
	}
	h.Session.Stage = r.Stage
	if next := r.Stage.Next(); next != "" {
		h.Session.Stage = next
	}
}

// RecordExport remembers where a stage's artifact was exported.
func (h *Handoff) RecordExport(stage types.Stage, path string) {
	if h.Exports == nil {
		h.Exports = make(map[string]string)
	}
	h.Exports[string(stage)] = path
}

// Encode serializes the handoff.
func (h *Handoff) Encode() ([]byte, error) {
	return msgpack.Marshal(h)
}

// DecodeHandoff parses an encoded handoff. Handoffs written by a different
// major format version are rejected.
func DecodeHandoff(data []byte) (*Handoff, error) {
	var h Handoff
	if err := msgpack.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode handoff: %w", err)
	}
	if major(h.Version) != major(types.HandoffVersion) {
		return nil, fmt.Errorf("handoff version %q is incompatible with %q", h.Version, types.HandoffVersion)
	}
	if err := h.Session.Validate(); err != nil {
		return nil, fmt.Errorf("handoff session: %w", err)
	}
	return &h, nil
}

// ReadHandoffFile loads a handoff from path. A missing file yields a fresh
// handoff.
func ReadHandoffFile(path string) (*Handoff, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewHandoff(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read handoff: %w", err)
	}
	return DecodeHandoff(data)
}

// WriteHandoffFile persists h to path.
func WriteHandoffFile(path string, h *Handoff) error {
	data, err := h.Encode()
	if err != nil {
		return fmt.Errorf("encode handoff: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write handoff: %w", err)
	}
	return nil
}

func major(version string) string {
	m, _, _ := strings.Cut(version, ".")
	return m
}
