package artifact

import "strings"

const fence = "```"

// unwrapFence strips a markdown code fence enclosing the whole text.
// Text that is not entirely fenced is returned unchanged.
func unwrapFence(text string) string {
	if !strings.HasPrefix(text, fence) || !strings.HasSuffix(text, fence) || len(text) < 2*len(fence) {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return text
	}
	// The opening line may carry a language tag (```plantuml, ```yaml).
	if strings.ContainsAny(strings.TrimSpace(text[len(fence):nl]), " \t`") {
		return text
	}
	inner := text[nl+1 : len(text)-len(fence)]
	return strings.TrimSpace(inner)
}
