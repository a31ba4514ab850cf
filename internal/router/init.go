package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/pet-adoption-api/internal/container"
	handlers "github.com/oksasatya/pet-adoption-api/internal/interface/http"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
	"github.com/oksasatya/pet-adoption-api/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) {
	log := c.Logger
	prefix := strings.TrimRight(c.Config.APIPrefix, "/")

	// Global per-IP ceiling; health checks and scrapes are exempt.
	r.Use(c.RateLimit(300, time.Minute, middleware.KeyByIP(), middleware.AllowPaths(prefix+"/health", prefix+"/metrics")))

	writeLimit := c.RateLimit(30, time.Minute, middleware.KeyByIPAndPath())

	r.Add(&modules.SystemModule{
		Health:  handlers.NewHealthHandler(healthChecks(c)),
		Metrics: c.Metrics,
		Limit:   c.RateLimit(120, time.Minute, middleware.KeyByIPAndPath()),
	})
	r.Add(&modules.AuthModule{
		Handler:   handlers.NewAuthHandler(c.Auth, log, c.Cookies),
		Guard:     c.Guard,
		AuthLimit: c.RateLimit(10, time.Minute, middleware.KeyByIPAndPath()),
	})
	r.Add(&modules.AnimalModule{
		Handler:     handlers.NewAnimalHandler(c.Animals, log),
		Guard:       c.Guard,
		SearchLimit: c.RateLimit(60, time.Minute, middleware.KeyByIPAndPath()),
		UploadLimit: c.RateLimit(20, time.Minute, middleware.KeyByUserID()),
	})
	r.Add(&modules.AdoptionModule{
		Handler:           handlers.NewAdoptionHandler(c.Adoptions, log),
		Guard:             c.Guard,
		CreateLimit:       writeLimit,
		DeleteRequiresOrg: c.Adoptions.Policy.DeleteRequiresOrganization,
	})
	r.Add(&modules.MessageModule{
		Handler:   handlers.NewMessageHandler(c.Messages, log),
		Guard:     c.Guard,
		SendLimit: writeLimit,
	})
}

func healthChecks(c *container.Container) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if c.PGPool != nil {
		checks["postgres"] = c.PGPool.Ping
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	if c.ES != nil {
		checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return fmt.Errorf("elasticsearch ping: %s", res.Status())
			}
			return nil
		}
	}
	return checks
}
