package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/project-pal/project-pal-backend/config"
	httpapi "github.com/project-pal/project-pal-backend/internal/api/http"
	"github.com/project-pal/project-pal-backend/internal/api/http/middleware"
	"github.com/project-pal/project-pal-backend/internal/assist"
	assisthttp "github.com/project-pal/project-pal-backend/internal/assist/http"
	"github.com/project-pal/project-pal-backend/internal/dashboard"
	dashhttp "github.com/project-pal/project-pal-backend/internal/dashboard/http"
	projecthttp "github.com/project-pal/project-pal-backend/internal/projects/http"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
	"github.com/project-pal/project-pal-backend/internal/projects/service"
	"github.com/project-pal/project-pal-backend/internal/session"
	sessionhttp "github.com/project-pal/project-pal-backend/internal/session/http"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Redis       *redis.Client
}

// BuildRouter assembles the writer (popup) surface: project CRUD, assist
// operations, and popup sessions.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	repo := repository.New(dep.Redis)
	projectSvc := service.NewProjectService(repo)
	assistSvc := assist.NewService(assist.NewClient(dep.Config.OpenRouter), repo)
	sessions := session.NewManager()

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.APIKey(dep.Config.Server.APIKey))

	projecthttp.New(projectSvc).Register(api.Group("/projects"))
	assisthttp.New(assistSvc, projectSvc).Register(api)
	sessionhttp.New(sessions, projectSvc, assistSvc).Register(api)

	return r
}

// BuildDashboardRouter assembles the read-only (new-tab) surface over an
// already running watcher.
func BuildDashboardRouter(dep RouterDeps, watcher *dashboard.Watcher) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	dashhttp.New(watcher).Register(api)

	return r
}
