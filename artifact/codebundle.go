package artifact

import "strings"

// SectionMarker opens a code bundle section: "## <name>".
const SectionMarker = "##"

// normalizeCodeBundle partitions text into sections keyed by header lines.
// Lines before the first header are discarded, and Content is rebuilt from
// the sections alone. A repeated header reopens the
// existing section, which keeps its first-appearance position.
func normalizeCodeBundle(text string) (Artifact, error) {
	var sections []Section
	index := make(map[string]int)
	current := -1

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		if name, ok := sectionHeader(line); ok {
			i, seen := index[name]
			if !seen {
				i = len(sections)
				index[name] = i
				sections = append(sections, Section{Name: name})
			}
			current = i
			continue
		}
		if current < 0 {
			continue
		}
		sections[current].Lines = append(sections[current].Lines, line)
	}

	nonEmpty := sections[:0]
	for _, s := range sections {
		if len(s.Lines) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return Artifact{}, invalid(KindCodeBundle, ReasonNoSections)
	}

	a := Artifact{Kind: KindCodeBundle, Sections: nonEmpty}
	a.Content = strings.TrimSpace(a.FormatSections())
	return a, nil
}

// sectionHeader reports whether line is a section header and returns its name.
// Deeper markdown headings ("### x") are content, not headers.
func sectionHeader(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, SectionMarker) {
		return "", false
	}
	rest := t[len(SectionMarker):]
	if strings.HasPrefix(rest, "#") {
		return "", false
	}
	name := strings.TrimSpace(rest)
	if name == "" {
		return "", false
	}
	return name, true
}
