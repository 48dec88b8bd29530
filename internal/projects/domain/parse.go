package domain

import (
	"strings"
	"time"
)

// timestampLayout renders "MM-DD-YY h:mm AM/PM", e.g. "03-07-25 9:41 AM".
const timestampLayout = "01-02-06 3:04 PM"

// FormatTimestamp renders the lastUpdated label for a mutation time.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// ParseCommaList splits a comma-separated input into trimmed entries,
// dropping whitespace-only segments. Duplicates are kept and order is
// preserved.
func ParseCommaList(value string) []string {
	return splitClean(value, ",")
}

// ParseLineList splits a newline-separated input the same way.
func ParseLineList(value string) []string {
	return splitClean(value, "\n")
}

func splitClean(value, sep string) []string {
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Filter returns the projects whose name or description contains the query,
// case-insensitively. An empty (or whitespace-only) query returns the input
// list unfiltered.
func Filter(projects []Project, query string) []Project {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return projects
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		haystack := strings.ToLower(p.Name + " " + p.Description)
		if strings.Contains(haystack, q) {
			out = append(out, p)
		}
	}
	return out
}
