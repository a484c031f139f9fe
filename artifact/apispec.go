package artifact

import (
	"fmt"
	"strings"
)

// DefaultSpecHeader is prepended to documents without a format-version header.
const DefaultSpecHeader = "openapi: 3.0.0"

const specHeaderPrefix = "openapi:"

// requiredSpecSections are checked in order; the first missing one is reported.
var requiredSpecSections = []struct {
	name   string
	marker string
}{
	{"paths", "paths:"},
	{"components", "components:"},
}

func normalizeAPISpec(text string) (Artifact, error) {
	text = unwrapFence(text)
	if text == "" {
		return Artifact{}, invalid(KindAPISpecDocument, ReasonEmpty)
	}

	if !strings.HasPrefix(text, specHeaderPrefix) {
		text = DefaultSpecHeader + "\n" + text
	}

	for _, s := range requiredSpecSections {
		if !strings.Contains(text, s.marker) {
			return Artifact{}, invalid(KindAPISpecDocument, fmt.Sprintf(reasonMissingSectionFmt, s.name))
		}
	}

	return Artifact{Kind: KindAPISpecDocument, Content: text}, nil
}
