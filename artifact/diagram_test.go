package artifact

import (
	"strings"
	"testing"
)

func TestNormalizeDiagram_AddsMarkers(t *testing.T) {
	a, err := Normalize("participant A\nA->B: hi", KindDiagramMarkup)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := "@startuml\nparticipant A\nA->B: hi\n@enduml"
	if a.Content != want {
		t.Errorf("content = %q, want %q", a.Content, want)
	}
	if a.Kind != KindDiagramMarkup {
		t.Errorf("kind = %q", a.Kind)
	}
}

func TestNormalizeDiagram_Rules(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantReason string
	}{
		{
			name:  "already valid",
			input: "@startuml\nA->B: call\nB-->A: ret\n@enduml",
			want:  "@startuml\nA->B: call\nB-->A: ret\n@enduml",
		},
		{
			name:  "deprecated opening marker",
			input: "@plantuml\nA->B: call\n@enduml",
			want:  "@startuml\nA->B: call\n@enduml",
		},
		{
			name:  "missing closing marker",
			input: "@startuml\nA->B: call",
			want:  "@startuml\nA->B: call\n@enduml",
		},
		{
			name:  "surrounding whitespace",
			input: "\n\n  @startuml\nA->B\n@enduml  \n",
			want:  "@startuml\nA->B\n@enduml",
		},
		{
			name:  "return arrow only",
			input: "B-->A: done",
			want:  "@startuml\nB-->A: done\n@enduml",
		},
		{
			name:  "colored arrow",
			input: "A -[#red]-> B: alert",
			want:  "@startuml\nA -[#red]-> B: alert\n@enduml",
		},
		{
			name:  "fenced",
			input: "```plantuml\n@startuml\nA->B\n@enduml\n```",
			want:  "@startuml\nA->B\n@enduml",
		},
		{
			name:       "no message flows",
			input:      "@startuml\nparticipant A\nparticipant B\n@enduml",
			wantReason: ReasonNoMessageFlows,
		},
		{
			name:       "two diagram blocks",
			input:      "@startuml\nA->B\n@enduml\n@startuml\nB->A\n@enduml",
			wantReason: ReasonDuplicateMarkers,
		},
		{
			name:       "alias and canonical both present",
			input:      "@plantuml\n@startuml\nA->B\n@enduml",
			wantReason: ReasonDuplicateMarkers,
		},
		{
			name:       "fenced empty",
			input:      "```\n```",
			wantReason: ReasonEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Normalize(tt.input, KindDiagramMarkup)
			if tt.wantReason != "" {
				ie, ok := IsInvalid(err)
				if !ok {
					t.Fatalf("expected InvalidError(%s), got %v (content %q)", tt.wantReason, err, a.Content)
				}
				if ie.Reason != tt.wantReason || ie.Kind != KindDiagramMarkup {
					t.Errorf("got %+v, want reason %q", ie, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if a.Content != tt.want {
				t.Errorf("content = %q, want %q", a.Content, tt.want)
			}
		})
	}
}

func TestNormalizeDiagram_SingleMarkerPair(t *testing.T) {
	inputs := []string{
		"A->B",
		"@startuml\nA->B",
		"A->B\n@enduml",
		"@plantuml\nA->B",
	}
	for _, in := range inputs {
		a, err := Normalize(in, KindDiagramMarkup)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if strings.Count(a.Content, DiagramOpen) != 1 || strings.Count(a.Content, DiagramClose) != 1 {
			t.Errorf("Normalize(%q) = %q: want exactly one marker pair", in, a.Content)
		}
		if !strings.HasPrefix(a.Content, DiagramOpen) || !strings.HasSuffix(a.Content, DiagramClose) {
			t.Errorf("Normalize(%q) = %q: content not bounded by markers", in, a.Content)
		}
	}
}
