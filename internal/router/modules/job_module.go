package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

// JobModule serves /jobs; every route requires a session.
type JobModule struct {
	Handler *handlers.JobHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewJobModule(h *handlers.JobHandler, rdb *redis.Client, jwt *helpers.JWTManager) *JobModule {
	return &JobModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *JobModule) Name() string { return "jobs" }

func (m *JobModule) Register(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.Use(middleware.Auth(m.Redis, m.JWT))
	jobs.Use(middleware.RateLimit(m.Redis, middleware.PerMinute(120), middleware.KeyByUserID(), nil))
	{
		jobs.POST("/post", m.Handler.Create)
		jobs.PUT("/update/:jobId", m.Handler.Update)
		jobs.GET("/get", m.Handler.List)
		jobs.GET("/get/:id", m.Handler.Get)
		jobs.GET("/getadminjobs/:id", m.Handler.ListByOwner)
	}
}
