package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-clean-api/internal/container"
	"go-clean-api/internal/domain/entity"
	handlers "go-clean-api/internal/interface/http"
	"go-clean-api/internal/interface/middleware"
	"go-clean-api/pkg/helpers"
)

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	readLimiter := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/products", readLimiter, m.Handler.List)
	rg.GET("/products/search", readLimiter, m.Handler.Search)
	rg.GET("/products/:id", readLimiter, m.Handler.Get)

	// Writes require a role: managers can create and update, only
	// administrators can delete.
	write := rg.Group("/")
	write.Use(middleware.RequireAuth(m.JWT))
	{
		manage := write.Group("/", middleware.RequireRoles(entity.RoleAdministrator, entity.RoleManager))
		manage.POST("/products", m.Handler.Create)
		manage.PUT("/products/:id", m.Handler.Update)
		manage.POST("/products/:id/image", m.Handler.UploadImage)

		admin := write.Group("/", middleware.RequireRoles(entity.RoleAdministrator))
		admin.DELETE("/products/:id", m.Handler.Delete)
	}
}
