package wizard

import (
	"regexp"
	"strings"

	"github.com/pithecene-io/reqforge/artifact"
)

// DiagramStyle is the skinparam block inserted after the opening marker.
const DiagramStyle = `skinparam sequence {
    ArrowColor #666666
    ActorBorderColor #666666
    LifeLineBorderColor #666666
    ParticipantBorderColor #666666
    ParticipantBackgroundColor #FFFFFF
}`

// ApplyDiagramStyle inserts DiagramStyle after the opening marker of a
// normalized diagram. Diagrams that already declare a sequence skinparam are
// returned unchanged.
func ApplyDiagramStyle(diagram string) string {
	if strings.Contains(diagram, "skinparam sequence") {
		return diagram
	}
	return strings.Replace(diagram, artifact.DiagramOpen, artifact.DiagramOpen+"\n"+DiagramStyle, 1)
}

var preamblePattern = regexp.MustCompile(`You are [^\n,]+, an expert code generator\.`)

// StripPreamble removes the first echoed code prompt persona line and trims
// the result.
func StripPreamble(text string) string {
	if loc := preamblePattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + text[loc[1]:]
	}
	return strings.TrimSpace(text)
}
