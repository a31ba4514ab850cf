package container

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/config"
	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/pet-adoption-api/internal/infrastructure/postgres"
	"github.com/oksasatya/pet-adoption-api/internal/infrastructure/search"
	"github.com/oksasatya/pet-adoption-api/internal/interface/middleware"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
	mailtpl "github.com/oksasatya/pet-adoption-api/pkg/mailer/templates"
)

const metricsNamespace = "pet_adoption"

// Container holds the components built at startup. Router modules pull
// their handlers and middleware from it. Optional backends stay nil when
// they are not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Store  repository.Store
	PGPool *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	Metrics     *prometheus.Registry
	HTTPMetrics *middleware.HTTPMetrics

	JWT     *helpers.JWTManager
	Hasher  helpers.PasswordHasher
	Cookies *helpers.CookieManager

	Auth      *application.AuthService
	Animals   *application.AnimalService
	Adoptions *application.AdoptionService
	Messages  *application.MessageService
	Guard     *middleware.Guard
}

// New wires services on top of an already opened store. Tests use it
// with the memory store.
func New(cfg *config.Config, logger *logrus.Logger, store repository.Store) *Container {
	c := &Container{Config: cfg, Logger: logger, Store: store}
	c.wire()
	return c
}

// Open connects every configured backend and wires the services.
// Only the store is mandatory; the other backends are logged and skipped
// when they cannot be reached.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStore(ctx); err != nil {
		return nil, err
	}
	c.openRedis(ctx)
	c.openGCS(ctx)
	c.openElasticsearch(ctx)
	c.openRabbit()
	c.wire()
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	if cfg.StorageDriver == config.DriverMemory {
		c.Logger.Warn("using in-memory store; data is lost on restart")
		c.Store = memory.NewStore()
		return nil
	}

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.AutoMigrate {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, false, c.Logger); err != nil {
			pool.Close()
			return fmt.Errorf("migrate: %w", err)
		}
	}
	c.PGPool = pool
	c.Store = pginfra.NewStore(pool)
	return nil
}

func (c *Container) openRedis(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		return
	}
	rdb, err := helpers.NewRedisClient(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		c.Logger.WithError(err).Warn("redis unavailable; using in-process rate limits")
		return
	}
	c.Redis = rdb
}

func (c *Container) openGCS(ctx context.Context) {
	if c.Config.GCSBucket == "" {
		return
	}
	client, err := helpers.NewGCSClient(ctx, c.Config.GCSCredentialsJSONPath)
	if err != nil {
		c.Logger.WithError(err).Warn("gcs unavailable; image upload disabled")
		return
	}
	c.GCS = client
}

func (c *Container) openElasticsearch(ctx context.Context) {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return
	}
	es, err := helpers.NewESClient(ctx, addrs, c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		c.Logger.WithError(err).Warn("elasticsearch unavailable; search uses the database")
		return
	}
	c.ES = es
}

func (c *Container) openRabbit() {
	if c.Config.RabbitMQURL == "" {
		return
	}
	pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; email notifications disabled")
		return
	}
	c.Rabbit = pub
}

func (c *Container) wire() {
	cfg := c.Config
	if c.Logger == nil {
		c.Logger = helpers.NewNopLogger()
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, helpers.WithIssuer(cfg.AppName))
	c.Hasher = helpers.NewBcryptHasher(cfg.BcryptCost)
	if cfg.AuthCookieEnabled {
		c.Cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	}

	// Interfaces stay nil, not typed nil, when a backend is off.
	var images application.ImageStore
	if c.GCS != nil {
		images = helpers.NewGCSImageStore(c.GCS, cfg.GCSBucket)
	}
	var index application.AnimalIndexer
	if c.ES != nil {
		index = search.NewAnimalIndex(c.ES, cfg.ESAnimalsIndex)
	}
	var notifier application.Notifier = application.NopNotifier{}
	if c.Rabbit != nil {
		branding := mailtpl.Branding{AppName: cfg.AppName, CompanyName: cfg.CompanyName, SupportURL: cfg.SupportURL}
		notifier = application.NewMailNotifier(c.Rabbit, branding, cfg.OrgNotifyEmail, c.Logger)
	}

	policy := application.AdoptionPolicy{
		AllowStatusReversal:        cfg.AdoptionAllowStatusReversal,
		DeleteRequiresOrganization: cfg.AdoptionDeleteRequiresOrg,
	}

	c.Auth = application.NewAuthService(c.Store, c.Hasher, c.JWT, notifier, c.Logger)
	c.Animals = application.NewAnimalService(c.Store, images, index, c.Logger)
	c.Adoptions = application.NewAdoptionService(c.Store, notifier, policy, c.Logger)
	c.Messages = application.NewMessageService(c.Store, notifier, c.Logger)
	c.Guard = middleware.NewGuard(c.JWT, c.Auth, cfg.AuthCookieEnabled)

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.Metrics = reg
		c.HTTPMetrics = middleware.NewHTTPMetrics(reg, metricsNamespace)
	}
}

// RateLimit returns a limiter allowing max requests per window for each key.
// Redis backs it when connected; otherwise a per-process token bucket does.
// Requests matching any bypass func are not counted.
func (c *Container) RateLimit(max int, window time.Duration, keyFn middleware.KeyFunc, bypass ...middleware.AllowFunc) gin.HandlerFunc {
	if !c.Config.RateLimitEnabled || max <= 0 || window <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	if c.Config.Env == "development" {
		bypass = append(bypass, middleware.AllowPrivateIP())
	}
	allow := middleware.AnyAllow(bypass...)
	if c.Redis != nil {
		return middleware.RateLimit(c.Redis, max, window, keyFn, allow, c.Logger)
	}
	return middleware.LocalRateLimit(float64(max)/window.Seconds(), max, keyFn, allow)
}

// Close releases backend connections in reverse order of opening.
func (c *Container) Close() {
	c.Rabbit.Close()
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
