package assist

import "strings"

// FeedbackSections is the best-effort segmentation of a free-form story
// review. When no section header is recognized the lines land in Notes, and
// Raw always carries the untouched reply, so callers can fall back to
// displaying the raw text.
type FeedbackSections struct {
	Good          []string `json:"good"`
	Change        []string `json:"change"`
	Notes         []string `json:"notes"`
	ImprovedStory string   `json:"improvedStory,omitempty"`
	Raw           string   `json:"raw"`
}

// Recognized reports whether any structured section was found.
func (f FeedbackSections) Recognized() bool {
	return len(f.Good) > 0 || len(f.Change) > 0 || f.ImprovedStory != ""
}

// SegmentFeedback splits a reply into good/change/notes sections on
// case-insensitive header prefixes, after stripping bullet markers and
// markdown emphasis from each line. Unrecognized shapes degrade to Notes.
func SegmentFeedback(raw string) FeedbackSections {
	out := FeedbackSections{Raw: raw}

	section := "notes"
	expectImproved := false

	for _, line := range strings.Split(raw, "\n") {
		line = stripLineMarkers(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "what is good"):
			section = "good"
			if rest := headerRemainder(line); rest != "" {
				out.Good = append(out.Good, rest)
			}
			continue
		case strings.HasPrefix(lower, "what to change"):
			section = "change"
			if rest := headerRemainder(line); rest != "" {
				out.Change = append(out.Change, rest)
			}
			continue
		case strings.HasPrefix(lower, "improved story"):
			if rest := headerRemainder(line); rest != "" {
				out.ImprovedStory = rest
			} else {
				expectImproved = true
			}
			continue
		}

		if expectImproved {
			out.ImprovedStory = line
			expectImproved = false
			continue
		}

		switch section {
		case "good":
			out.Good = append(out.Good, line)
		case "change":
			out.Change = append(out.Change, line)
		default:
			out.Notes = append(out.Notes, line)
		}
	}

	return out
}

// headerRemainder returns the text after a header's colon or dash, if any.
func headerRemainder(line string) string {
	for _, sep := range []string{":", " - ", "–"} {
		if i := strings.Index(line, sep); i >= 0 {
			return stripLineMarkers(line[i+len(sep):])
		}
	}
	return ""
}

// stripLineMarkers removes leading bullet markers and markdown emphasis
// characters so prefix matching sees plain text.
func stripLineMarkers(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•>#")
	line = strings.TrimSpace(line)
	// Numbered bullets like "1." or "2)".
	if len(line) > 1 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
		line = strings.TrimSpace(line[2:])
	}
	line = strings.Trim(line, "*_`")
	return strings.TrimSpace(line)
}
