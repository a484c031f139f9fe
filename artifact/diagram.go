package artifact

import "strings"

// Diagram block markers.
const (
	DiagramOpen  = "@startuml"
	DiagramClose = "@enduml"
)

// deprecatedOpenMarkers are rewritten to DiagramOpen.
var deprecatedOpenMarkers = []string{"@plantuml"}

// messageFlowTokens are the synchronous and return arrows.
var messageFlowTokens = []string{"->", "-->"}

func normalizeDiagram(text string) (Artifact, error) {
	text = unwrapFence(text)
	if text == "" {
		return Artifact{}, invalid(KindDiagramMarkup, ReasonEmpty)
	}

	for _, alias := range deprecatedOpenMarkers {
		text = strings.ReplaceAll(text, alias, DiagramOpen)
	}
	if !strings.HasPrefix(text, DiagramOpen) {
		text = DiagramOpen + "\n" + text
	}
	if !strings.HasSuffix(text, DiagramClose) {
		text = text + "\n" + DiagramClose
	}

	if strings.Count(text, DiagramOpen) != 1 || strings.Count(text, DiagramClose) != 1 {
		return Artifact{}, invalid(KindDiagramMarkup, ReasonDuplicateMarkers)
	}
	if !containsAny(text, messageFlowTokens) {
		return Artifact{}, invalid(KindDiagramMarkup, ReasonNoMessageFlows)
	}

	return Artifact{Kind: KindDiagramMarkup, Content: text}, nil
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
