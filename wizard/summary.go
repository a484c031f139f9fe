package wizard

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// SpecSummary lists what an API document declares.
type SpecSummary struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Paths   []string `json:"paths" yaml:"paths"`
	Schemas []string `json:"schemas" yaml:"schemas"`
}

type specDoc struct {
	Info struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths      map[string]yaml.Node `yaml:"paths"`
	Components struct {
		Schemas map[string]yaml.Node `yaml:"schemas"`
	} `yaml:"components"`
}

// SummarizeSpec parses spec as YAML and lists its path and schema keys in
// sorted order. It reports ok=false when the document does not parse; model
// output is not guaranteed to be well-formed YAML.
func SummarizeSpec(spec string) (SpecSummary, bool) {
	var doc specDoc
	if err := yaml.Unmarshal([]byte(spec), &doc); err != nil {
		return SpecSummary{}, false
	}
	return SpecSummary{
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
		Paths:   sortedKeys(doc.Paths),
		Schemas: sortedKeys(doc.Components.Schemas),
	}, true
}

func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
