package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

// ApplicationModule serves /applications; every route requires a session.
type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewApplicationModule(h *handlers.ApplicationHandler, rdb *redis.Client, jwt *helpers.JWTManager) *ApplicationModule {
	return &ApplicationModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *ApplicationModule) Name() string { return "applications" }

func (m *ApplicationModule) Register(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	apps.Use(middleware.Auth(m.Redis, m.JWT))
	apps.Use(middleware.RateLimit(m.Redis, middleware.PerMinute(120), middleware.KeyByUserID(), nil))
	{
		apps.POST("/apply/:jobId",
			middleware.RateLimit(m.Redis, middleware.PerMinute(20), middleware.KeyByUserID(), nil),
			m.Handler.Apply)
		apps.GET("/applied", m.Handler.Applied)
		apps.GET("/:jobId/applicants", m.Handler.Applicants)
		apps.POST("/status/:id/update", m.Handler.UpdateStatus)
		apps.GET("/appliedJobsProfile/:userId", m.Handler.AppliedJobsProfile)
	}
}
