package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
)

// FormValues are the raw draft fields of the create/edit form. TechStack and
// UserStories arrive as comma- and newline-separated text respectively.
type FormValues struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	NextDeadline     string `json:"nextDeadline"`
	TechStackInput   string `json:"techStackInput"`
	UserStoriesInput string `json:"userStoriesInput"`
}

// ProjectService handles project-related business logic.
type ProjectService struct {
	repo *repository.Repo
}

func NewProjectService(repo *repository.Repo) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns the current project list, filtered by the search query.
func (s *ProjectService) List(ctx context.Context, query string) ([]domain.Project, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(snap.Projects, query), nil
}

// Get returns a single project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (domain.Project, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	p := snap.FindProject(id)
	if p == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	return *p, nil
}

// Create validates the draft and inserts a new project at the head of the
// list. The id is assigned here and never changes afterwards.
func (s *ProjectService) Create(ctx context.Context, form FormValues) (domain.Project, error) {
	p, err := projectFromForm(form)
	if err != nil {
		return domain.Project{}, err
	}
	p.ID = "project-" + uuid.NewString()
	return s.repo.Upsert(ctx, p)
}

// Update replaces the record matching the draft's id.
func (s *ProjectService) Update(ctx context.Context, form FormValues) (domain.Project, error) {
	p, err := projectFromForm(form)
	if err != nil {
		return domain.Project{}, err
	}
	if form.ID == "" {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	existing, err := s.Get(ctx, form.ID)
	if err != nil {
		return domain.Project{}, err
	}

	// Edits replace the form-backed fields; risk data survives untouched.
	existing.Name = p.Name
	existing.Description = p.Description
	existing.NextDeadline = p.NextDeadline
	existing.TechStack = p.TechStack
	existing.UserStories = p.UserStories
	return s.repo.Upsert(ctx, existing)
}

// CreateFromOption creates a project from an accepted AI-generated skeleton,
// through the same save path as a manual create.
func (s *ProjectService) CreateFromOption(ctx context.Context, opt domain.ProjectOption) (domain.Project, error) {
	name := strings.TrimSpace(opt.Name)
	if name == "" {
		return domain.Project{}, domain.ErrEmptyName
	}
	p := domain.Project{
		ID:           "project-" + uuid.NewString(),
		Name:         name,
		Description:  strings.TrimSpace(opt.Description),
		NextDeadline: strings.TrimSpace(opt.NextDeadline),
		TechStack:    cleanList(opt.TechStack),
		UserStories:  cleanList(opt.UserStories),
	}
	return s.repo.Upsert(ctx, p)
}

// Delete removes a project by id; reports whether it existed.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Remove(ctx, id)
}

// Feedback returns the stored story -> feedback map for a project.
func (s *ProjectService) Feedback(ctx context.Context, projectID string) (map[string]string, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.FindProject(projectID) == nil {
		return nil, domain.ErrProjectNotFound
	}
	return snap.FeedbackFor(projectID), nil
}

func projectFromForm(form FormValues) (domain.Project, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return domain.Project{}, domain.ErrEmptyName
	}
	return domain.Project{
		ID:           form.ID,
		Name:         name,
		Description:  strings.TrimSpace(form.Description),
		NextDeadline: strings.TrimSpace(form.NextDeadline),
		TechStack:    domain.ParseCommaList(form.TechStackInput),
		UserStories:  domain.ParseLineList(form.UserStoriesInput),
	}, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
