package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-clean-api/internal/application/auth"
	"go-clean-api/internal/interface/middleware"
)

// AuthHandler exposes the session endpoints. All business rules live in the
// auth service; this layer only binds payloads and renders results.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var dto auth.LoginDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		badPayload(c)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), dto)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var dto auth.RegisterDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		badPayload(c)
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), dto)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var dto auth.ChangePasswordDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		badPayload(c)
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), c.GetString(middleware.CtxUserID), dto); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var dto auth.ForgotPasswordDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		badPayload(c)
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), dto); err != nil {
		_ = c.Error(err)
		return
	}
	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset email has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var dto auth.ResetPasswordDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		badPayload(c)
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), dto); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	res, err := h.Auth.GetCurrentUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}
