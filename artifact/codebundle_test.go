package artifact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeCodeBundle_Example(t *testing.T) {
	input := "noise\n## Models\nclass User {}\n## Configuration\nport=8080"
	a, err := Normalize(input, KindCodeBundle)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := []Section{
		{Name: "Models", Lines: []string{"class User {}"}},
		{Name: "Configuration", Lines: []string{"port=8080"}},
	}
	if diff := cmp.Diff(want, a.Sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	wantContent := "## Models\nclass User {}\n## Configuration\nport=8080"
	if a.Content != wantContent {
		t.Errorf("content = %q, want %q", a.Content, wantContent)
	}
}

func TestNormalizeCodeBundle_Partitioning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Section
	}{
		{
			name: "order preserved within section",
			input: "## Presentation Layer\n" +
				"@RestController\n" +
				"public class UserController {\n" +
				"    // body\n" +
				"}\n" +
				"## Data Access Layer\n" +
				"interface UserRepo {}",
			want: []Section{
				{Name: "Presentation Layer", Lines: []string{"@RestController", "public class UserController {", "    // body", "}"}},
				{Name: "Data Access Layer", Lines: []string{"interface UserRepo {}"}},
			},
		},
		{
			name:  "empty section omitted",
			input: "## Dependencies\n## Models\ntype User struct{}",
			want: []Section{
				{Name: "Models", Lines: []string{"type User struct{}"}},
			},
		},
		{
			name:  "repeated header appends in place",
			input: "## Models\na\n## Configuration\nb\n## Models\nc",
			want: []Section{
				{Name: "Models", Lines: []string{"a", "c"}},
				{Name: "Configuration", Lines: []string{"b"}},
			},
		},
		{
			name:  "indented header and CRLF",
			input: "  ## Models  \r\nclass A\r\n## Configuration\r\nx=1",
			want: []Section{
				{Name: "Models", Lines: []string{"class A"}},
				{Name: "Configuration", Lines: []string{"x=1"}},
			},
		},
		{
			name:  "deeper heading is content",
			input: "## Business Logic Layer\n### Helpers\nfunc f() {}",
			want: []Section{
				{Name: "Business Logic Layer", Lines: []string{"### Helpers", "func f() {}"}},
			},
		},
		{
			name:  "blank lines kept",
			input: "## Models\nclass A\n\nclass B",
			want: []Section{
				{Name: "Models", Lines: []string{"class A", "", "class B"}},
			},
		},
		{
			name:  "marker without space",
			input: "##Models\nclass A",
			want: []Section{
				{Name: "Models", Lines: []string{"class A"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Normalize(tt.input, KindCodeBundle)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tt.want, a.Sections); diff != "" {
				t.Errorf("sections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeCodeBundle_NoSections(t *testing.T) {
	inputs := []string{
		"just some code\nwithout headers",
		"# Title\n### Sub\ncode",
		"##\n## \ncode",
		"## Models\n## Configuration",
	}
	for _, in := range inputs {
		_, err := Normalize(in, KindCodeBundle)
		ie, ok := IsInvalid(err)
		if !ok {
			t.Fatalf("Normalize(%q): expected InvalidError, got %v", in, err)
		}
		if ie.Kind != KindCodeBundle || ie.Reason != ReasonNoSections {
			t.Errorf("Normalize(%q) = %+v, want no recognized sections", in, ie)
		}
	}
}

func TestArtifact_SectionAccessors(t *testing.T) {
	a, err := Normalize("## Models\nclass A\n## Configuration\nport=1", KindCodeBundle)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	lines, ok := a.Section("Configuration")
	if !ok || len(lines) != 1 || lines[0] != "port=1" {
		t.Errorf("Section(Configuration) = %v, %v", lines, ok)
	}
	if _, ok := a.Section("Dependencies"); ok {
		t.Error("Section(Dependencies) should be absent")
	}
	if diff := cmp.Diff([]string{"Models", "Configuration"}, a.SectionNames()); diff != "" {
		t.Errorf("SectionNames mismatch (-want +got):\n%s", diff)
	}

	want := "## Models\nclass A\n## Configuration\nport=1"
	if got := a.FormatSections(); got != want {
		t.Errorf("FormatSections() = %q, want %q", got, want)
	}
}

func TestNormalizeCodeBundle_ContentExcludesDiscardedLines(t *testing.T) {
	input := "Here is your code:\n## Models\nclass A\n## Dependencies\n## Models\nclass B\n## Configuration\r\nport=1"
	a, err := Normalize(input, KindCodeBundle)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := "## Models\nclass A\nclass B\n## Configuration\nport=1"
	if a.Content != want {
		t.Errorf("content = %q, want %q", a.Content, want)
	}

	again, err := Normalize(a.Content, KindCodeBundle)
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}
	if diff := cmp.Diff(a, again); diff != "" {
		t.Errorf("renormalized bundle mismatch (-want +got):\n%s", diff)
	}
}
