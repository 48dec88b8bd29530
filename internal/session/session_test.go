package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
)

func TestNewSessionStartsInList(t *testing.T) {
	s := newSession("s1")

	snap := s.Snapshot()
	assert.Equal(t, StateList, snap.State)
	assert.Empty(t, snap.SearchQuery)
	assert.Empty(t, snap.ActiveProjectID)
}

func TestOpenCreateFormResetsDraft(t *testing.T) {
	s := newSession("s1")
	s.SetAISummary("leftover")
	s.OfferOptions([]domain.ProjectOption{{Name: "x"}})

	s.OpenCreateForm()

	snap := s.Snapshot()
	assert.Equal(t, StateForm, snap.State)
	assert.Equal(t, ModeCreate, snap.FormMode)
	assert.False(t, snap.AIMode)
	assert.Empty(t, snap.AISummary)
	assert.Empty(t, snap.AIOptions)
}

func TestOpenEditFormJoinsLists(t *testing.T) {
	s := newSession("s1")
	s.OpenEditForm(domain.Project{
		ID:          "project-x",
		Name:        "Demo",
		TechStack:   []string{"Go", "Rust"},
		UserStories: []string{"story one", "story two"},
	})

	form, mode, ok := s.FormDraft()
	require.True(t, ok)
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, "Go, Rust", form.TechStackInput)
	assert.Equal(t, "story one\nstory two", form.UserStoriesInput)
}

func TestSetFormField(t *testing.T) {
	s := newSession("s1")
	s.OpenCreateForm()

	s.SetFormField("name", "Demo")
	s.SetFormField("techStackInput", "Go")
	s.SetFormField("bogus", "ignored")

	form, _, ok := s.FormDraft()
	require.True(t, ok)
	assert.Equal(t, "Demo", form.Name)
	assert.Equal(t, "Go", form.TechStackInput)
}

func TestSavedCreateOpensDetail(t *testing.T) {
	s := newSession("s1")
	s.OpenCreateForm()

	s.Saved(domain.Project{ID: "project-new"}, true)

	snap := s.Snapshot()
	assert.Equal(t, StateDetail, snap.State)
	assert.Equal(t, "project-new", snap.ActiveProjectID)
	assert.Empty(t, snap.Form.Name)
}

func TestSavedEditReturnsToOrigin(t *testing.T) {
	// Edit opened from the list goes back to the list.
	s := newSession("s1")
	s.OpenEditForm(domain.Project{ID: "project-x", Name: "Demo"})
	s.Saved(domain.Project{ID: "project-x"}, false)
	assert.Equal(t, StateList, s.Snapshot().State)

	// Edit opened from the detail view returns there.
	s = newSession("s2")
	s.OpenDetail("project-x")
	s.OpenEditForm(domain.Project{ID: "project-x", Name: "Demo"})
	s.Saved(domain.Project{ID: "project-x"}, false)

	snap := s.Snapshot()
	assert.Equal(t, StateDetail, snap.State)
	assert.Equal(t, "project-x", snap.ActiveProjectID)
}

func TestCloseFormDiscardsDraft(t *testing.T) {
	s := newSession("s1")
	s.OpenCreateForm()
	s.SetFormField("name", "half typed")

	s.CloseForm()

	snap := s.Snapshot()
	assert.Equal(t, StateList, snap.State)
	assert.Empty(t, snap.Form.Name)

	// Outside the form it is a no-op.
	s.OpenDetail("project-x")
	s.CloseForm()
	assert.Equal(t, StateDetail, s.Snapshot().State)
}

func TestFormDraftOutsideForm(t *testing.T) {
	s := newSession("s1")
	_, _, ok := s.FormDraft()
	assert.False(t, ok)
}

func TestBackClearsDetailState(t *testing.T) {
	s := newSession("s1")
	s.OpenDetail("project-x")
	s.ToggleStory("a story")

	s.Back()

	snap := s.Snapshot()
	assert.Equal(t, StateList, snap.State)
	assert.Empty(t, snap.ActiveProjectID)
	assert.Empty(t, snap.ExpandedStoryKey)
}

func TestDeletedOnlyAffectsActiveProject(t *testing.T) {
	s := newSession("s1")
	s.OpenDetail("project-x")
	s.SetStoryDraft("in progress")

	// Deleting some other project leaves the view alone.
	s.Deleted("project-y")
	assert.Equal(t, StateDetail, s.Snapshot().State)

	s.Deleted("project-x")
	snap := s.Snapshot()
	assert.Equal(t, StateList, snap.State)
	assert.Empty(t, snap.ActiveProjectID)
	assert.Empty(t, snap.StoryDraft)
}

func TestSubmitSearchTrims(t *testing.T) {
	s := newSession("s1")
	s.SetSearch("  impact  ")
	s.SubmitSearch()
	assert.Equal(t, "impact", s.SearchQuery())
}

func TestToggleStory(t *testing.T) {
	s := newSession("s1")
	s.OpenDetail("project-x")

	s.ToggleStory("story a")
	assert.Equal(t, "story a", s.Snapshot().ExpandedStoryKey)

	// Toggling another story switches, toggling the same one collapses.
	s.ToggleStory("story b")
	assert.Equal(t, "story b", s.Snapshot().ExpandedStoryKey)
	s.ToggleStory("story b")
	assert.Empty(t, s.Snapshot().ExpandedStoryKey)
}

func TestToggleAIModeOnlyInCreateForm(t *testing.T) {
	s := newSession("s1")

	// No-op outside the form and in edit mode.
	s.ToggleAIMode()
	assert.False(t, s.Snapshot().AIMode)

	s.OpenEditForm(domain.Project{ID: "project-x", Name: "Demo"})
	s.ToggleAIMode()
	assert.False(t, s.Snapshot().AIMode)

	s.OpenCreateForm()
	s.ToggleAIMode()
	assert.True(t, s.Snapshot().AIMode)
	s.ToggleAIMode()
	assert.False(t, s.Snapshot().AIMode)
}

func TestOptionAt(t *testing.T) {
	s := newSession("s1")
	s.OfferOptions([]domain.ProjectOption{{Name: "a"}, {Name: "b"}})

	opt, ok := s.OptionAt(1)
	require.True(t, ok)
	assert.Equal(t, "b", opt.Name)

	_, ok = s.OptionAt(2)
	assert.False(t, ok)
	_, ok = s.OptionAt(-1)
	assert.False(t, ok)
}

func TestManager(t *testing.T) {
	m := NewManager()

	s := m.Create()
	require.NotEmpty(t, s.ID)
	assert.Same(t, s, m.Get(s.ID))

	m.Drop(s.ID)
	assert.Nil(t, m.Get(s.ID))

	// Dropping an unknown id is a no-op.
	m.Drop("nope")
}
