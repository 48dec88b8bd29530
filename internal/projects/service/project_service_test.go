package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
)

func newTestService(t *testing.T) *ProjectService {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewProjectService(repository.New(client))
}

func TestCreateParsesFormInputs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, FormValues{
		Name:             "  Demo  ",
		Description:      " A demo ",
		NextDeadline:     "2025-12-01",
		TechStackInput:   "Go, , Rust",
		UserStoriesInput: "As a user, I can log in.\n\nAs an admin, I can ban users.",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.ID, "project-"))
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, "A demo", p.Description)
	assert.Equal(t, []string{"Go", "Rust"}, p.TechStack)
	assert.Equal(t, []string{
		"As a user, I can log in.",
		"As an admin, I can ban users.",
	}, p.UserStories)
	assert.NotEmpty(t, p.LastUpdated)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), FormValues{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestUpdatePreservesRiskData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, FormValues{Name: "Demo"})
	require.NoError(t, err)

	_, err = svc.repo.ApplyAssessment(ctx, p.ID, domain.Assessment{
		RiskScore:      50,
		ReadinessScore: 60,
		Breakdown:      []domain.RiskDimension{{Dimension: "Clarity", Score: 50, Why: "ok"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, FormValues{
		ID:             p.ID,
		Name:           "Demo v2",
		TechStackInput: "Go",
	})
	require.NoError(t, err)

	assert.Equal(t, "Demo v2", updated.Name)
	assert.Equal(t, []string{"Go"}, updated.TechStack)
	require.NotNil(t, updated.RiskScore)
	assert.Equal(t, 50, *updated.RiskScore)
	require.NotNil(t, updated.ReadinessScore)
	assert.Equal(t, 60, *updated.ReadinessScore)
	require.Len(t, updated.RiskBreakdown, 1)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), FormValues{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = svc.Update(context.Background(), FormValues{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	got, err := svc.List(ctx, "storycraft")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "StoryCraft", got[0].Name)
}

func TestCreateFromOption(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreateFromOption(context.Background(), domain.ProjectOption{
		Name:        " Habit Tracker ",
		Description: "Track daily habits",
		TechStack:   []string{" Go ", "", "SQLite"},
		UserStories: []string{"As a user, I can add a habit.", "  "},
	})
	require.NoError(t, err)

	assert.Equal(t, "Habit Tracker", p.Name)
	assert.Equal(t, []string{"Go", "SQLite"}, p.TechStack)
	assert.Equal(t, []string{"As a user, I can add a habit."}, p.UserStories)

	_, err = svc.CreateFromOption(context.Background(), domain.ProjectOption{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, FormValues{Name: "Doomed"})
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeedbackUnknownProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Feedback(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
