package artifact

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNormalize_EmptyInput(t *testing.T) {
	for _, kind := range Kinds() {
		for _, input := range []string{"", "   ", "\n\t\n"} {
			t.Run(fmt.Sprintf("%s/%q", kind, input), func(t *testing.T) {
				a, err := Normalize(input, kind)
				ie, ok := IsInvalid(err)
				if !ok {
					t.Fatalf("expected InvalidError, got %v", err)
				}
				if ie.Kind != kind || ie.Reason != ReasonEmpty {
					t.Errorf("got %+v, want {%s empty}", ie, kind)
				}
				if a.Content != "" || a.Sections != nil {
					t.Errorf("failure must not carry a partial artifact: %+v", a)
				}
			})
		}
	}
}

func TestNormalize_UnknownKind(t *testing.T) {
	_, err := Normalize("text", Kind("slides"))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, ok := IsInvalid(err); ok {
		t.Error("unknown kind is a caller error, not an InvalidError")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := map[Kind][]string{
		KindDiagramMarkup: {
			"participant A\nA->B: hi",
			"@plantuml\nA->B: hi\n@enduml",
			"```plantuml\n@startuml\nA-->B: ok\n@enduml\n```",
			"@startuml\nactor U\nU->S: go",
		},
		KindAPISpecDocument: {
			"paths:\n  /users: {}\ncomponents:\n  schemas: {}",
			"openapi: 3.1.0\ninfo: {}\npaths: {}\ncomponents: {}",
			"```yaml\npaths: {}\ncomponents: {}\n```",
		},
		KindCodeBundle: {
			"noise\n## Models\nclass User {}\n## Configuration\nport=8080",
			"## A\nx\n## B\ny  \n## A\nz",
			"## Models\nclass A\n\n\n## Models\n",
		},
	}

	for kind, list := range inputs {
		for _, input := range list {
			t.Run(string(kind), func(t *testing.T) {
				first, err := Normalize(input, kind)
				if err != nil {
					t.Fatalf("first pass: %v", err)
				}
				second, err := Normalize(first.Content, kind)
				if err != nil {
					t.Fatalf("second pass: %v", err)
				}
				if first.Content != second.Content {
					t.Errorf("not idempotent:\nfirst:  %q\nsecond: %q", first.Content, second.Content)
				}
			})
		}
	}
}

func TestInvalidError_Message(t *testing.T) {
	err := fmt.Errorf("stage: %w", invalid(KindCodeBundle, ReasonNoSections))
	if !strings.Contains(err.Error(), "invalid code_bundle: no recognized sections") {
		t.Errorf("Error() = %q", err.Error())
	}
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatal("wrapped InvalidError not found")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"diagram", KindDiagramMarkup, false},
		{"DIAGRAM_MARKUP", KindDiagramMarkup, false},
		{"openapi", KindAPISpecDocument, false},
		{"spec", KindAPISpecDocument, false},
		{"code", KindCodeBundle, false},
		{"code_bundle", KindCodeBundle, false},
		{"tests", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnwrapFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "A->B", "A->B"},
		{"tagged", "```plantuml\nA->B\n```", "A->B"},
		{"untagged", "```\npaths: {}\n```", "paths: {}"},
		{"empty fence", "```\n```", ""},
		{"inner fence only", "text\n```\ncode\n```", "text\n```\ncode\n```"},
		{"single line", "``` x ```", "``` x ```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapFence(tt.input); got != tt.want {
				t.Errorf("unwrapFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
