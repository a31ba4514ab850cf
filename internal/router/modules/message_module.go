package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
)

type MessageModule struct {
	Handler   *handlers.MessageHandler
	Guard     *middleware.Guard
	SendLimit gin.HandlerFunc
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	org := m.Guard.Require(entity.RoleOrganization)

	rg.POST("/contact", m.SendLimit, m.Handler.SendContact)
	rg.GET("/contact", org, m.Handler.ListContacts)
	rg.POST("/feedback", m.SendLimit, m.Handler.SendFeedback)
	rg.GET("/feedback", org, m.Handler.ListFeedback)
}
