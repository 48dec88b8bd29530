package assist

import (
	"context"
	"strings"
	"sync"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
)

// Operation names, used for guards and status reporting.
const (
	OpFeedback = "feedback"
	OpOptions  = "options"
	OpRisk     = "risk"
)

// opState is the per-operation status: idle, in flight, or idle with the
// last error kept for display. Illegal combinations (in flight + error) are
// unrepresentable.
type opState struct {
	mu        sync.Mutex
	inFlight  bool
	lastError string
}

// begin marks the operation in flight. A second trigger while one is
// outstanding is rejected, not queued.
func (s *opState) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	s.lastError = ""
	return true
}

func (s *opState) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.lastError = err.Error()
	}
}

func (s *opState) snapshot() OpStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inFlight:
		return OpStatus{State: "in_flight"}
	case s.lastError != "":
		return OpStatus{State: "error", Error: s.lastError}
	default:
		return OpStatus{State: "idle"}
	}
}

// OpStatus is the externally visible status of one operation kind.
type OpStatus struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// Service runs the three assist operations against the portfolio store.
type Service struct {
	client *Client
	repo   *repository.Repo

	feedback opState
	options  opState
	risk     opState
}

func NewService(client *Client, repo *repository.Repo) *Service {
	return &Service{client: client, repo: repo}
}

// Status reports the per-operation states.
func (s *Service) Status() map[string]OpStatus {
	return map[string]OpStatus{
		OpFeedback: s.feedback.snapshot(),
		OpOptions:  s.options.snapshot(),
		OpRisk:     s.risk.snapshot(),
	}
}

// StoryFeedback is the result of a story-feedback call: the mutated project,
// the raw reply (which is what gets stored), and its best-effort sections.
type StoryFeedback struct {
	Project  domain.Project   `json:"project"`
	Story    string           `json:"story"`
	Feedback string           `json:"feedback"`
	Sections FeedbackSections `json:"sections"`
}

// GenerateStoryFeedback reviews a draft story for a project, stores the raw
// reply keyed by the trimmed story text, and appends the story to the
// project when it is new.
func (s *Service) GenerateStoryFeedback(ctx context.Context, projectID, storyDraft string) (StoryFeedback, error) {
	story := strings.TrimSpace(storyDraft)
	if story == "" {
		return StoryFeedback{}, ErrEmptyInput
	}
	if !s.feedback.begin() {
		return StoryFeedback{}, ErrBusy
	}

	result, err := s.generateStoryFeedback(ctx, projectID, story)
	s.feedback.finish(err)
	return result, err
}

func (s *Service) generateStoryFeedback(ctx context.Context, projectID, story string) (StoryFeedback, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return StoryFeedback{}, err
	}
	project := snap.FindProject(projectID)
	if project == nil {
		return StoryFeedback{}, domain.ErrProjectNotFound
	}

	reply, err := s.client.Complete(ctx, feedbackSystemPrompt, buildFeedbackPrompt(*project, story), FeedbackMaxTokens)
	if err != nil {
		return StoryFeedback{}, err
	}

	updated, err := s.repo.RecordFeedback(ctx, projectID, story, reply)
	if err != nil {
		return StoryFeedback{}, err
	}

	return StoryFeedback{
		Project:  updated,
		Story:    story,
		Feedback: reply,
		Sections: SegmentFeedback(reply),
	}, nil
}

// GenerateOptions proposes up to MaxOptions project skeletons from a
// free-text summary. Nothing is persisted until an option is accepted.
func (s *Service) GenerateOptions(ctx context.Context, summary string) ([]domain.ProjectOption, error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, ErrEmptyInput
	}
	if !s.options.begin() {
		return nil, ErrBusy
	}

	opts, err := s.generateOptions(ctx, summary)
	s.options.finish(err)
	return opts, err
}

func (s *Service) generateOptions(ctx context.Context, summary string) ([]domain.ProjectOption, error) {
	reply, err := s.client.Complete(ctx, optionsSystemPrompt, buildOptionsPrompt(summary), StructuredMaxTokens)
	if err != nil {
		return nil, err
	}
	return decodeOptions(reply)
}

// AssessRisk scores a project's risk/readiness and writes the result onto
// the record.
func (s *Service) AssessRisk(ctx context.Context, projectID string) (domain.Project, error) {
	if !s.risk.begin() {
		return domain.Project{}, ErrBusy
	}

	project, err := s.assessRisk(ctx, projectID)
	s.risk.finish(err)
	return project, err
}

func (s *Service) assessRisk(ctx context.Context, projectID string) (domain.Project, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	project := snap.FindProject(projectID)
	if project == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	reply, err := s.client.Complete(ctx, riskSystemPrompt, buildRiskPrompt(*project), StructuredMaxTokens)
	if err != nil {
		return domain.Project{}, err
	}

	assessment, err := decodeAssessment(reply)
	if err != nil {
		return domain.Project{}, err
	}
	return s.repo.ApplyAssessment(ctx, projectID, assessment)
}
