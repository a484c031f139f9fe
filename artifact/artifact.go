// Package artifact turns raw generated text into structurally valid artifacts.
//
// Normalize applies only mechanical text repairs, selected by the artifact
// kind the caller asks for. It never calls the model again and never invents
// content, so the same input always yields the same result.
package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects the repair rules applied by Normalize.
// The caller always supplies it; it is never inferred from content.
type Kind string

// Artifact kinds.
const (
	KindDiagramMarkup   Kind = "diagram_markup"
	KindAPISpecDocument Kind = "api_spec_document"
	KindCodeBundle      Kind = "code_bundle"
)

// Kinds returns all artifact kinds.
func Kinds() []Kind {
	return []Kind{KindDiagramMarkup, KindAPISpecDocument, KindCodeBundle}
}

// ParseKind parses a kind name. Short aliases (diagram, spec, code) are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindDiagramMarkup), "diagram", "puml", "plantuml":
		return KindDiagramMarkup, nil
	case string(KindAPISpecDocument), "spec", "openapi":
		return KindAPISpecDocument, nil
	case string(KindCodeBundle), "code", "bundle":
		return KindCodeBundle, nil
	default:
		return "", fmt.Errorf("invalid artifact kind: %q (must be diagram, spec, or code)", s)
	}
}

// Section is one named part of a code bundle.
type Section struct {
	Name  string   `json:"name" yaml:"name"`
	Lines []string `json:"lines" yaml:"lines"`
}

// Artifact is a structurally valid artifact.
type Artifact struct {
	// Kind is the kind the artifact was normalized as.
	Kind Kind `json:"kind" yaml:"kind"`
	// Content is the repaired text, exported byte-for-byte. For code bundles
	// it is rebuilt from Sections, so discarded lines never reach an export.
	Content string `json:"content" yaml:"content"`
	// Sections holds the ordered code bundle sections. Nil for other kinds.
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Section returns the lines of the named section.
func (a Artifact) Section(name string) ([]string, bool) {
	for _, s := range a.Sections {
		if s.Name == name {
			return s.Lines, true
		}
	}
	return nil, false
}

// SectionNames returns section names in bundle order.
func (a Artifact) SectionNames() []string {
	names := make([]string, 0, len(a.Sections))
	for _, s := range a.Sections {
		names = append(names, s.Name)
	}
	return names
}

// FormatSections renders the bundle as "## <name>" blocks in bundle order.
// Normalizing the result as a code bundle yields the same sections.
func (a Artifact) FormatSections() string {
	var lines []string
	for _, s := range a.Sections {
		lines = append(lines, SectionMarker+" "+s.Name)
		lines = append(lines, s.Lines...)
	}
	return strings.Join(lines, "\n")
}

// Reasons reported by InvalidError.
const (
	ReasonEmpty             = "empty"
	ReasonNoMessageFlows    = "no message flows"
	ReasonDuplicateMarkers  = "duplicate diagram markers"
	ReasonNoSections        = "no recognized sections"
	reasonMissingSectionFmt = "missing required section: %s"
)

// InvalidError reports text that could not be repaired into the requested kind.
type InvalidError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}

// IsInvalid reports whether err is an *InvalidError, returning it if so.
func IsInvalid(err error) (*InvalidError, bool) {
	var ie *InvalidError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

func invalid(kind Kind, reason string) *InvalidError {
	return &InvalidError{Kind: kind, Reason: reason}
}

// rule repairs trimmed, non-empty text of one kind.
type rule func(text string) (Artifact, error)

var rules = map[Kind]rule{
	KindDiagramMarkup:   normalizeDiagram,
	KindAPISpecDocument: normalizeAPISpec,
	KindCodeBundle:      normalizeCodeBundle,
}

// Normalize repairs text into an artifact of the given kind.
// On failure it returns an *InvalidError and a zero Artifact.
func Normalize(text string, kind Kind) (Artifact, error) {
	r, ok := rules[kind]
	if !ok {
		return Artifact{}, fmt.Errorf("unknown artifact kind: %q", kind)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Artifact{}, invalid(kind, ReasonEmpty)
	}

	return r(text)
}
