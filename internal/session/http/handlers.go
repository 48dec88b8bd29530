package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/project-pal/project-pal-backend/internal/assist"
	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/service"
	"github.com/project-pal/project-pal-backend/internal/session"
)

// Handler drives popup sessions. Every event returns the refreshed session
// snapshot so the popup can render without tracking any state of its own.
type Handler struct {
	sessions *session.Manager
	projects *service.ProjectService
	assist   *assist.Service
}

func New(sessions *session.Manager, projects *service.ProjectService, assistSvc *assist.Service) *Handler {
	return &Handler{sessions: sessions, projects: projects, assist: assistSvc}
}

// Register attaches session routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.create)
	rg.GET("/sessions/:id", h.get)
	rg.POST("/sessions/:id/events", h.event)
	rg.DELETE("/sessions/:id", h.drop)
}

func (h *Handler) create(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": s.Snapshot()})
}

func (h *Handler) get(c *gin.Context) {
	s := h.sessions.Get(c.Param("id"))
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": s.Snapshot()})
}

func (h *Handler) drop(c *gin.Context) {
	h.sessions.Drop(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type eventReq struct {
	Type        string `json:"type"`
	ProjectID   string `json:"projectId,omitempty"`
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
	StoryKey    string `json:"storyKey,omitempty"`
	OptionIndex int    `json:"optionIndex,omitempty"`
}

// event applies one popup interaction to the session state machine. Events
// that mutate the portfolio (save, delete, the assist flows) go through the
// same services as the plain HTTP endpoints.
func (h *Handler) event(c *gin.Context) {
	s := h.sessions.Get(c.Param("id"))
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
		return
	}

	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	extra := gin.H{}

	switch req.Type {
	case "open_create":
		s.OpenCreateForm()

	case "open_edit":
		p, err := h.projects.Get(c.Request.Context(), req.ProjectID)
		if err != nil {
			h.notFoundOrFail(c, err)
			return
		}
		s.OpenEditForm(p)

	case "close_form":
		s.CloseForm()

	case "set_field":
		s.SetFormField(req.Field, req.Value)

	case "save":
		if !h.save(c, s, extra) {
			return
		}

	case "open_detail":
		p, err := h.projects.Get(c.Request.Context(), req.ProjectID)
		if err != nil {
			h.notFoundOrFail(c, err)
			return
		}
		s.OpenDetail(p.ID)

	case "back":
		s.Back()

	case "delete":
		removed, err := h.projects.Delete(c.Request.Context(), req.ProjectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		if removed {
			s.Deleted(req.ProjectID)
		}
		extra["removed"] = removed

	case "set_search":
		s.SetSearch(req.Value)

	case "submit_search":
		s.SubmitSearch()

	case "set_story_draft":
		s.SetStoryDraft(req.Value)

	case "toggle_story":
		s.ToggleStory(req.StoryKey)

	case "toggle_ai_mode":
		s.ToggleAIMode()

	case "set_ai_summary":
		s.SetAISummary(req.Value)

	case "generate_feedback":
		result, err := h.assist.GenerateStoryFeedback(c.Request.Context(), s.ActiveProjectID(), s.StoryDraft())
		if err != nil {
			h.assistError(c, s, err)
			return
		}
		s.ClearStoryDraft()
		extra["result"] = result

	case "generate_options":
		options, err := h.assist.GenerateOptions(c.Request.Context(), s.AISummary())
		if err != nil {
			h.assistError(c, s, err)
			return
		}
		s.OfferOptions(options)
		extra["options"] = options

	case "accept_option":
		opt, ok := s.OptionAt(req.OptionIndex)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no such option"})
			return
		}
		p, err := h.projects.CreateFromOption(c.Request.Context(), opt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		s.Saved(p, true)
		extra["project"] = p

	case "assess_risk":
		p, err := h.assist.AssessRisk(c.Request.Context(), s.ActiveProjectID())
		if err != nil {
			h.assistError(c, s, err)
			return
		}
		extra["project"] = p

	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown event type"})
		return
	}

	resp := gin.H{"ok": true, "session": s.Snapshot()}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// save runs the form draft through create or update. An empty trimmed name
// silently blocks the save: the session stays in the form state and no error
// is surfaced, mirroring a disabled submit button.
func (h *Handler) save(c *gin.Context, s *session.Session, extra gin.H) bool {
	form, mode, ok := s.FormDraft()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "no form open"})
		return false
	}

	var (
		p   domain.Project
		err error
	)
	if mode == session.ModeCreate {
		p, err = h.projects.Create(c.Request.Context(), form)
	} else {
		p, err = h.projects.Update(c.Request.Context(), form)
	}
	if err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			extra["saved"] = false
			return true
		}
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return false
	}

	s.Saved(p, mode == session.ModeCreate)
	extra["saved"] = true
	extra["project"] = p
	return true
}

func (h *Handler) notFoundOrFail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// assistError keeps assist failures scoped to their operation: the session
// state is untouched and the error rides back inline.
func (h *Handler) assistError(c *gin.Context, s *session.Session, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, assist.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, assist.ErrBusy), errors.Is(err, assist.ErrRateLimited):
		status = http.StatusConflict
	case errors.Is(err, assist.ErrMissingCredential):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProjectNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error(), "session": s.Snapshot()})
}
