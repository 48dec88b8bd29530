package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/project-pal/project-pal-backend/internal/assist"
	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/service"
)

// Handler bundles the dependencies for assist HTTP endpoints. The projects
// service is needed to turn an accepted option into a real project.
type Handler struct {
	svc      *assist.Service
	projects *service.ProjectService
}

func New(svc *assist.Service, projects *service.ProjectService) *Handler {
	return &Handler{svc: svc, projects: projects}
}

// Register attaches assist routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/feedback", h.storyFeedback)
	rg.POST("/projects/:id/risk", h.assessRisk)
	rg.POST("/assist/options", h.generateOptions)
	rg.POST("/assist/options/accept", h.acceptOption)
	rg.GET("/assist/status", h.status)
}

type storyReq struct {
	Story string `json:"story"`
}

func (h *Handler) storyFeedback(c *gin.Context) {
	var req storyReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Story) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "story is required"})
		return
	}

	result, err := h.svc.GenerateStoryFeedback(c.Request.Context(), c.Param("id"), req.Story)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}

func (h *Handler) assessRisk(c *gin.Context) {
	project, err := h.svc.AssessRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": project})
}

type optionsReq struct {
	Summary string `json:"summary"`
}

func (h *Handler) generateOptions(c *gin.Context) {
	var req optionsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Summary) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "summary is required"})
		return
	}

	options, err := h.svc.GenerateOptions(c.Request.Context(), req.Summary)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "options": options})
}

type acceptReq struct {
	Option domain.ProjectOption `json:"option"`
}

func (h *Handler) acceptOption(c *gin.Context) {
	var req acceptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	project, err := h.projects.CreateFromOption(c.Request.Context(), req.Option)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyName) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "option name is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": project})
}

func (h *Handler) status(c *gin.Context) {
	m := assist.GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"operations": h.svc.Status(),
		"metrics": gin.H{
			"calls":            m.Calls(),
			"errorRate":        m.ErrorRate(),
			"averageLatencyMs": m.AverageLatency(),
		},
	})
}

// writeError maps assist failures onto status codes; every error stays
// scoped to the operation that produced it.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assist.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, assist.ErrBusy), errors.Is(err, assist.ErrRateLimited):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, assist.ErrMissingCredential):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, assist.ErrBadReply), errors.Is(err, assist.ErrEmptyReply):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	}
}
