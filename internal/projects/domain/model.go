package domain

import "strings"

// Project is the persisted unit of portfolio data. JSON field names follow
// the blob format consumed by the dashboard, so they are camelCase rather
// than snake_case.
type Project struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	NextDeadline   string          `json:"nextDeadline,omitempty"`
	LastUpdated    string          `json:"lastUpdated"`
	RiskScore      *int            `json:"riskScore,omitempty"`
	ReadinessScore *int            `json:"readinessScore,omitempty"`
	RiskBreakdown  []RiskDimension `json:"riskBreakdown,omitempty"`
	TechStack      []string        `json:"techStack"`
	UserStories    []string        `json:"userStories"`
}

// RiskDimension is one scored dimension of a risk assessment.
type RiskDimension struct {
	Dimension string `json:"dimension"`
	Score     int    `json:"score"`
	Why       string `json:"why"`
}

// Assessment is the result of a risk-scoring call, stored as-is on the
// project. The 0-100 bound is a prompt instruction, not validated here.
type Assessment struct {
	RiskScore      int             `json:"riskScore"`
	ReadinessScore int             `json:"readinessScore"`
	Breakdown      []RiskDimension `json:"breakdown"`
}

// FeedbackMap holds AI feedback keyed by project id, then by the trimmed
// user-story text. Editing a story's wording orphans its prior feedback.
type FeedbackMap map[string]map[string]string

// Snapshot is the full persisted state: the project list plus the feedback
// map, serialized together as one blob.
type Snapshot struct {
	Projects []Project   `json:"projects"`
	Feedback FeedbackMap `json:"aiFeedbackByProjectId"`
}

// ProjectOption is a project skeleton proposed by the option-generation
// assist flow. Accepting one creates a Project through the normal save path.
type ProjectOption struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	NextDeadline string   `json:"nextDeadline"`
	TechStack    []string `json:"techStack"`
	UserStories  []string `json:"userStories"`
}

// FindProject returns the project with the given id, or nil.
func (s *Snapshot) FindProject(id string) *Project {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

// FeedbackFor returns the story -> feedback map for a project, never nil.
func (s *Snapshot) FeedbackFor(projectID string) map[string]string {
	if s.Feedback == nil {
		return map[string]string{}
	}
	if m, ok := s.Feedback[projectID]; ok && m != nil {
		return m
	}
	return map[string]string{}
}

// HasStory reports whether the project already contains a story whose
// trimmed text equals story (itself expected to be trimmed).
func (p *Project) HasStory(story string) bool {
	for _, s := range p.UserStories {
		if strings.TrimSpace(s) == story {
			return true
		}
	}
	return false
}
