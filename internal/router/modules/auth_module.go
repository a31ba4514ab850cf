package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler   *handlers.AuthHandler
	Guard     *middleware.Guard
	AuthLimit gin.HandlerFunc
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	rg.POST("/auth/register", m.AuthLimit, m.Handler.Register)
	rg.POST("/auth/login", m.AuthLimit, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)

	rg.GET("/auth/me", m.Guard.Require(), m.Handler.Me)
}
