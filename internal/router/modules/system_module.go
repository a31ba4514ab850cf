package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
)

// SystemModule serves the health check and, when a registry is set, the
// Prometheus exposition.
type SystemModule struct {
	Health  *handlers.HealthHandler
	Metrics *prometheus.Registry
	Limit   gin.HandlerFunc
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)
	if m.Metrics != nil {
		// Public metrics endpoint, rate-limited per IP
		h := promhttp.HandlerFor(m.Metrics, promhttp.HandlerOpts{Registry: m.Metrics})
		rg.GET("/metrics", m.Limit, gin.WrapH(h))
	}
}
