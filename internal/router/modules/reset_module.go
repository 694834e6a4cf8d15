package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/madinafit/fitness-backend/internal/container"
	handlers "github.com/madinafit/fitness-backend/internal/interface/http"
	"github.com/madinafit/fitness-backend/internal/interface/middleware"
)

// ResetModule wires the password-reset code lifecycle.
type ResetModule struct {
	Handler *handlers.ResetHandler
}

func NewResetModule(h *handlers.ResetHandler) *ResetModule {
	return &ResetModule{Handler: h}
}

func (m *ResetModule) Register(rg *gin.RouterGroup) {
	// Code issuance is the expensive path (stores a code, sends mail), so it
	// gets the tightest limit.
	requestLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/password/reset/request", requestLimiter, m.Handler.RequestCode)
	rg.POST("/password/reset/confirm", confirmLimiter, m.Handler.ResetPassword)
}
