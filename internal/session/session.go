package session

import (
	"strings"
	"sync"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/service"
)

// State is the popup's view state. Exactly one is active per session; the
// auxiliary fields that only make sense in one state live behind it.
type State string

const (
	StateList   State = "list"
	StateForm   State = "form"
	StateDetail State = "detail"
)

// FormMode distinguishes create from edit inside StateForm.
type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// Session holds one popup's UI state server-side so the popup itself stays a
// dumb renderer. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu    sync.Mutex
	state State

	// list
	searchQuery string

	// form
	formMode  FormMode
	form      service.FormValues
	aiMode    bool
	aiSummary string
	aiOptions []domain.ProjectOption

	// detail
	activeProjectID  string
	storyDraft       string
	expandedStoryKey string
}

func newSession(id string) *Session {
	return &Session{ID: id, state: StateList}
}

// Snapshot is the renderable view of a session.
type Snapshot struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	SearchQuery string `json:"searchQuery"`

	FormMode  FormMode               `json:"formMode,omitempty"`
	Form      service.FormValues     `json:"form"`
	AIMode    bool                   `json:"aiMode"`
	AISummary string                 `json:"aiSummary"`
	AIOptions []domain.ProjectOption `json:"aiOptions,omitempty"`

	ActiveProjectID  string `json:"activeProjectId,omitempty"`
	StoryDraft       string `json:"storyDraft"`
	ExpandedStoryKey string `json:"expandedStoryKey,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:               s.ID,
		State:            s.state,
		SearchQuery:      s.searchQuery,
		FormMode:         s.formMode,
		Form:             s.form,
		AIMode:           s.aiMode,
		AISummary:        s.aiSummary,
		AIOptions:        s.aiOptions,
		ActiveProjectID:  s.activeProjectID,
		StoryDraft:       s.storyDraft,
		ExpandedStoryKey: s.expandedStoryKey,
	}
}

// OpenCreateForm starts a blank create form.
func (s *Session) OpenCreateForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateForm
	s.formMode = ModeCreate
	s.form = service.FormValues{}
	s.aiMode = false
	s.aiSummary = ""
	s.aiOptions = nil
}

// OpenEditForm prefills the form from an existing project. Reachable from
// both the list and the detail view.
func (s *Session) OpenEditForm(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateForm
	s.formMode = ModeEdit
	s.form = service.FormValues{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		NextDeadline:     p.NextDeadline,
		TechStackInput:   strings.Join(p.TechStack, ", "),
		UserStoriesInput: strings.Join(p.UserStories, "\n"),
	}
	s.aiMode = false
	s.aiSummary = ""
	s.aiOptions = nil
}

// CloseForm leaves the form without saving: back to detail when a project is
// open, to the list otherwise.
func (s *Session) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateForm {
		return
	}
	s.leaveFormLocked()
}

// FormDraft returns the current draft and mode for a save attempt.
func (s *Session) FormDraft() (service.FormValues, FormMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateForm {
		return service.FormValues{}, "", false
	}
	return s.form, s.formMode, true
}

// SetFormField updates one draft field. Unknown fields are ignored.
func (s *Session) SetFormField(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch field {
	case "name":
		s.form.Name = value
	case "description":
		s.form.Description = value
	case "nextDeadline":
		s.form.NextDeadline = value
	case "techStackInput":
		s.form.TechStackInput = value
	case "userStoriesInput":
		s.form.UserStoriesInput = value
	}
}

// Saved records a successful save: the saved project becomes active, creates
// land in detail view, edits return to wherever the form was opened from.
func (s *Session) Saved(p domain.Project, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if created {
		s.activeProjectID = p.ID
	}
	s.aiOptions = nil
	s.aiSummary = ""
	s.aiMode = false
	s.leaveFormLocked()
}

func (s *Session) leaveFormLocked() {
	s.formMode = ""
	s.form = service.FormValues{}
	if s.activeProjectID != "" {
		s.state = StateDetail
	} else {
		s.state = StateList
	}
}

// OpenDetail opens a project from the list.
func (s *Session) OpenDetail(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDetail
	s.activeProjectID = projectID
	s.expandedStoryKey = ""
}

// Back returns from the detail view to the list.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateList
	s.activeProjectID = ""
	s.expandedStoryKey = ""
}

// Deleted clears the open reference when the deleted project was active and
// returns to the list.
func (s *Session) Deleted(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeProjectID == projectID {
		s.activeProjectID = ""
		s.expandedStoryKey = ""
		s.storyDraft = ""
		s.state = StateList
	}
}

// ActiveProjectID returns the open project id, if any.
func (s *Session) ActiveProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProjectID
}

// SetSearch updates the list filter; it only affects the list view.
func (s *Session) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SubmitSearch trims the query, as the header's submit does.
func (s *Session) SubmitSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = strings.TrimSpace(s.searchQuery)
}

// SearchQuery returns the current list filter.
func (s *Session) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// SetStoryDraft updates the detail view's story draft.
func (s *Session) SetStoryDraft(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storyDraft = value
}

// StoryDraft returns the current story draft.
func (s *Session) StoryDraft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storyDraft
}

// ClearStoryDraft empties the draft after feedback was generated.
func (s *Session) ClearStoryDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storyDraft = ""
}

// ToggleStory expands or collapses one story's feedback in the detail view.
func (s *Session) ToggleStory(storyKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expandedStoryKey == storyKey {
		s.expandedStoryKey = ""
	} else {
		s.expandedStoryKey = storyKey
	}
}

// ToggleAIMode flips the create form between manual and AI sub-mode. It is
// only meaningful in create mode.
func (s *Session) ToggleAIMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateForm || s.formMode != ModeCreate {
		return
	}
	s.aiMode = !s.aiMode
}

// SetAISummary updates the AI sub-mode's summary draft.
func (s *Session) SetAISummary(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiSummary = value
}

// AISummary returns the summary draft.
func (s *Session) AISummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiSummary
}

// OfferOptions stores generated skeletons for selection.
func (s *Session) OfferOptions(options []domain.ProjectOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiOptions = options
}

// OptionAt returns the offered option at the given index.
func (s *Session) OptionAt(index int) (domain.ProjectOption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.aiOptions) {
		return domain.ProjectOption{}, false
	}
	return s.aiOptions[index], true
}
