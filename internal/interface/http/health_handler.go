package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

// Pinger is anything the health check can ping, e.g. the pgx pool or redis.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.Checks))
	healthy := true
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			deps[name] = "down"
			healthy = false
			continue
		}
		deps[name] = "up"
	}

	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "degraded", gin.H{"status": "degraded", "dependencies": deps})
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"status": "ok", "dependencies": deps}, "ok", nil)
}
