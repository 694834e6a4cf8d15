package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/madinafit/fitness-backend/internal/interface/http"
)

// WorkoutModule wires workout submission and retrieval.
type WorkoutModule struct {
	Handler *handlers.WorkoutHandler
}

func NewWorkoutModule(h *handlers.WorkoutHandler) *WorkoutModule {
	return &WorkoutModule{Handler: h}
}

func (m *WorkoutModule) Register(rg *gin.RouterGroup) {
	rg.POST("/workouts", m.Handler.Submit)
	rg.GET("/workouts", m.Handler.List)
	rg.GET("/workouts/:id", m.Handler.Get)
}
