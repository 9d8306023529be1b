package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-clean-api/internal/container"
	handlers "go-clean-api/internal/interface/http"
	"go-clean-api/internal/interface/middleware"
	"go-clean-api/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints carry tight per-IP limits; forgot-password tighter
	// still since each hit can queue an email.
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", resetLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.JWT))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil))
	{
		auth.POST("/auth/change-password", m.Handler.ChangePassword)
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
	}
}
