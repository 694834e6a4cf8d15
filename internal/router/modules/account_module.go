package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madinafit/fitness-backend/internal/container"
	handlers "github.com/madinafit/fitness-backend/internal/interface/http"
	"github.com/madinafit/fitness-backend/internal/interface/middleware"
	"github.com/madinafit/fitness-backend/pkg/helpers"
)

// AccountModule wires registration, login, lookup and password-change routes.
// Public: POST /api/register, /api/login, /api/refresh, /api/password/change,
// GET /api/users. Protected: POST /api/logout, GET /api/profile,
// GET /api/users/search.
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	changeLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/users", m.Handler.Lookup)
	// Password change re-checks the current password itself, so no session
	// is required here.
	rg.POST("/password/change", changeLimiter, m.Handler.ChangePassword)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.GET("/users/search", m.Handler.Search)
	}
}
