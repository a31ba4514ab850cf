package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
)

type AdoptionModule struct {
	Handler     *handlers.AdoptionHandler
	Guard       *middleware.Guard
	CreateLimit gin.HandlerFunc
	// DeleteRequiresOrg puts DELETE /adoptions/:id behind the organization role.
	DeleteRequiresOrg bool
}

func (m *AdoptionModule) Register(rg *gin.RouterGroup) {
	rg.GET("/adoptions", m.Handler.List)
	rg.GET("/adoptions/:id", m.Handler.Get)
	rg.POST("/adoptions", m.CreateLimit, m.Handler.Create)

	org := m.Guard.Require(entity.RoleOrganization)
	rg.PUT("/adoptions/:id/status", org, m.Handler.UpdateStatus)

	if m.DeleteRequiresOrg {
		rg.DELETE("/adoptions/:id", org, m.Handler.Delete)
	} else {
		rg.DELETE("/adoptions/:id", m.Handler.Delete)
	}
}
