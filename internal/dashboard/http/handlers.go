package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/project-pal/project-pal-backend/internal/dashboard"
	"github.com/project-pal/project-pal-backend/internal/projects/domain"
)

// Handler serves the read-only dashboard surface from the watcher's mirror.
// Nothing here writes to the store.
type Handler struct {
	watcher *dashboard.Watcher
}

func New(watcher *dashboard.Watcher) *Handler {
	return &Handler{watcher: watcher}
}

// Register attaches dashboard routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.list)
	rg.GET("/projects/stream", h.stream)
}

func (h *Handler) list(c *gin.Context) {
	snap := h.watcher.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"projects": domain.Filter(snap.Projects, c.Query("q")),
	})
}

// stream pushes the project list to the browser over SSE: one initial event
// with the current snapshot, then one event per observed change, plus
// keep-alive pings.
func (h *Handler) stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	updates, cancel := h.watcher.Subscribe()
	defer cancel()

	writeEvent(c, flusher, "initial", h.watcher.Snapshot().Projects)

	ctx := c.Request.Context()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case snap := <-updates:
			writeEvent(c, flusher, "projects", snap.Projects)
		}
	}
}

func writeEvent(c *gin.Context, flusher http.Flusher, event string, projects []domain.Project) {
	data, _ := json.Marshal(gin.H{"projects": projects})
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
