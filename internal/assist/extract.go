package assist

import (
	"encoding/json"
	"strings"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
)

// extractJSON pulls a JSON object out of a model reply: a fenced code block
// wins, otherwise the substring between the first '{' and the last '}'.
func extractJSON(reply string) (string, bool) {
	if fenced, ok := extractFenced(reply); ok {
		return fenced, true
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}

func extractFenced(reply string) (string, bool) {
	open := strings.Index(reply, "```")
	if open < 0 {
		return "", false
	}
	rest := reply[open+3:]
	// Skip a language tag like "json" on the fence line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	closeIdx := strings.Index(rest, "```")
	if closeIdx < 0 {
		return "", false
	}
	body := strings.TrimSpace(rest[:closeIdx])
	if !strings.Contains(body, "{") {
		return "", false
	}
	return body, true
}

type optionsPayload struct {
	Options []domain.ProjectOption `json:"options"`
}

// decodeOptions parses an option-generation reply. It requires a non-empty
// options array and keeps at most MaxOptions entries.
func decodeOptions(reply string) ([]domain.ProjectOption, error) {
	raw, ok := extractJSON(reply)
	if !ok {
		return nil, ErrBadReply
	}
	var payload optionsPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrBadReply
	}
	if len(payload.Options) == 0 {
		return nil, ErrBadReply
	}
	if len(payload.Options) > MaxOptions {
		payload.Options = payload.Options[:MaxOptions]
	}
	return payload.Options, nil
}

// decodeAssessment parses a risk-scoring reply. Scores and text are stored
// as-is; only a non-empty breakdown is required.
func decodeAssessment(reply string) (domain.Assessment, error) {
	raw, ok := extractJSON(reply)
	if !ok {
		return domain.Assessment{}, ErrBadReply
	}
	var a domain.Assessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return domain.Assessment{}, ErrBadReply
	}
	if len(a.Breakdown) == 0 {
		return domain.Assessment{}, ErrBadReply
	}
	return a, nil
}
