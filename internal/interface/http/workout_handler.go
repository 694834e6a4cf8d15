package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/application"
	"github.com/madinafit/fitness-backend/pkg/response"
	"github.com/madinafit/fitness-backend/pkg/validation"
)

type WorkoutHandler struct {
	Svc    *application.WorkoutService
	Logger *logrus.Logger
}

func NewWorkoutHandler(svc *application.WorkoutService, logger *logrus.Logger) *WorkoutHandler {
	return &WorkoutHandler{Svc: svc, Logger: logger}
}

// Submit POST /api/workouts
// The body is stored verbatim; only ownerEmail is required.
func (h *WorkoutHandler) Submit(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.Submit(c.Request.Context(), payload); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "workout stored", nil)
}

// List GET /api/workouts?email=
func (h *WorkoutHandler) List(c *gin.Context) {
	items, err := h.Svc.ListByOwner(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "workouts", map[string]any{"count": len(items)})
}

// Get GET /api/workouts/:id
func (h *WorkoutHandler) Get(c *gin.Context) {
	item, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, "workout", nil)
}
