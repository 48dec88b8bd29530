package assist

import (
	"strings"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
)

const (
	feedbackSystemPrompt = "You are a senior product manager who reviews user stories for clarity and completeness."

	optionsSystemPrompt = "You are a senior product manager who turns a rough project summary into concrete, buildable project proposals."

	riskSystemPrompt = "You are a senior delivery lead who scores software projects for risk and readiness."
)

// riskDimensions are the exact dimensions requested of the model; the reply
// breakdown is stored as returned.
var riskDimensions = []string{"Clarity", "Scope Control", "Testability", "Dependencies", "Alignment"}

func buildFeedbackPrompt(p domain.Project, story string) string {
	return strings.Join([]string{
		"Project: " + p.Name,
		"Description: " + p.Description,
		"Tech Stack: " + orNA(strings.Join(p.TechStack, ", ")),
		"Existing User Stories: " + orNA(strings.Join(p.UserStories, " | ")),
		"New User Story: " + story,
		"",
		"Respond with a short review (max 6 bullets total) using this format:",
		"- What is good (1-2 bullets)",
		"- What to change (2-4 bullets)",
		"If needed, include a single-line Improved Story after the bullets.",
		"Keep it concise and avoid extra sections.",
	}, "\n")
}

func buildOptionsPrompt(summary string) string {
	return strings.Join([]string{
		"Project Summary: " + summary,
		"",
		"Propose up to 3 distinct project skeletons that fit the summary.",
		"Respond with a single JSON object, no prose, in this shape:",
		`{"options":[{"name":"...","description":"...","nextDeadline":"MM-DD-YY h:mm AM/PM or empty","techStack":["..."],"userStories":["As a user, ..."]}]}`,
		"Each option needs a short name, a 1-2 sentence description, 2-5 tech stack entries, and 2-4 user stories.",
	}, "\n")
}

func buildRiskPrompt(p domain.Project) string {
	return strings.Join([]string{
		"Project: " + p.Name,
		"Description: " + p.Description,
		"Next Deadline: " + orNA(p.NextDeadline),
		"Tech Stack: " + orNA(strings.Join(p.TechStack, ", ")),
		"User Stories: " + orNA(strings.Join(p.UserStories, " | ")),
		"",
		"Score this project's delivery risk. Respond with a single JSON object, no prose:",
		`{"riskScore":0,"readinessScore":0,"breakdown":[{"dimension":"...","score":0,"why":"..."}]}`,
		"riskScore and readinessScore are integers from 0 to 100.",
		"The breakdown must contain exactly these dimensions, in order: " + strings.Join(riskDimensions, ", ") + ".",
		"Each dimension gets a 0-100 score and a one-sentence why.",
	}, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
