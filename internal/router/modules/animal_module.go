package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
)

type AnimalModule struct {
	Handler     *handlers.AnimalHandler
	Guard       *middleware.Guard
	SearchLimit gin.HandlerFunc
	UploadLimit gin.HandlerFunc
}

func (m *AnimalModule) Register(rg *gin.RouterGroup) {
	rg.GET("/animals", m.Handler.List)
	rg.GET("/animals/search", m.SearchLimit, m.Handler.Search)
	rg.GET("/animals/:id", m.Handler.Get)

	org := rg.Group("/animals")
	org.Use(m.Guard.Require(entity.RoleOrganization))
	{
		org.POST("", m.Handler.Create)
		org.PUT("/:id", m.Handler.Update)
		org.DELETE("/:id", m.Handler.Delete)
		// user-based limit needs the guard to have run first
		org.POST("/:id/image", m.UploadLimit, m.Handler.UploadImage)
	}
}
