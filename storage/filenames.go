package storage

import (
	"fmt"
	"strings"
)

// Export file names for fixed stages.
const (
	DiagramFile = "diagram.puml"
	SpecFile    = "openapi-spec.yaml"
)

// TestsFile returns the export file name of generated tests.
func TestsFile(language string) string {
	return fmt.Sprintf("tests_%s.txt", strings.ToLower(language))
}

// CodeFile returns the export file name of generated code.
func CodeFile(language, database string) string {
	return fmt.Sprintf("api_code_%s_%s.txt", strings.ToLower(language), strings.ToLower(database))
}
