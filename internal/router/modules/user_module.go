package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /register, POST /login, POST /refresh
// Protected: POST /logout, GET /profile, PUT /profile, POST /profile/image
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, middleware.PerMinute(5), middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, middleware.PerMinute(10), middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, middleware.PerMinute(60), middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, middleware.PerMinute(120), middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/image", m.Handler.UploadImage)
	}
}
