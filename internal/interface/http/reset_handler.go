package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/madinafit/fitness-backend/internal/application"
	"github.com/madinafit/fitness-backend/pkg/response"
	"github.com/madinafit/fitness-backend/pkg/validation"
)

type ResetHandler struct {
	Svc    *application.ResetService
	Logger *logrus.Logger
}

func NewResetHandler(svc *application.ResetService, logger *logrus.Logger) *ResetHandler {
	return &ResetHandler{Svc: svc, Logger: logger}
}

type requestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// RequestCode POST /api/password/reset/request
func (h *ResetHandler) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestCode(c.Request.Context(), req.Email); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "sent"}, "reset code sent", nil)
}

// ResetPassword POST /api/password/reset/confirm
func (h *ResetHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "password reset", nil)
}
