package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/internal/container"
	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

// NewEngine builds the gin engine with global middleware and every module
// registered under the configured prefix.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	// RealIP reads proxy headers itself when TRUST_PROXY is set.
	_ = r.SetTrustedProxies(nil)
	r.MaxMultipartMemory = handlers.MaxImageBytes

	r.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		c.Logger.WithField("request_id", ctx.GetString("request_id")).Errorf("panic recovered: %v", recovered)
		response.Abort(ctx, http.StatusInternalServerError, "internal server error", nil)
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxy))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(c.Logger))
	}
	if c.HTTPMetrics != nil {
		r.Use(c.HTTPMetrics.Handler())
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "route not found", nil)
	})

	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
