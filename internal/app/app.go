package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/domain/billing"
	"github.com/mockupstudio/server/internal/domain/generation"
	"github.com/mockupstudio/server/internal/domain/style"

	// Inbound adapters (HTTP handlers)
	ginadapter "github.com/mockupstudio/server/internal/adapter/inbound/gin"

	// Outbound adapters
	"github.com/mockupstudio/server/internal/adapter/outbound/aibackend"
	"github.com/mockupstudio/server/internal/adapter/outbound/memory"
	"github.com/mockupstudio/server/internal/adapter/outbound/modelrun"
	"github.com/mockupstudio/server/internal/adapter/outbound/payment"
	"github.com/mockupstudio/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/mockupstudio/server/internal/adapter/outbound/redis"
	s3adapter "github.com/mockupstudio/server/internal/adapter/outbound/s3"
	"github.com/mockupstudio/server/internal/adapter/outbound/session"
	"github.com/mockupstudio/server/internal/port/outbound"

	// Infrastructure
	"github.com/mockupstudio/server/internal/infra/cache"
	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/infra/database"
	"github.com/mockupstudio/server/internal/infra/httpclient"
	"github.com/mockupstudio/server/internal/utils/metrics"
	"github.com/mockupstudio/server/internal/utils/middleware"
)

const metricsNamespace = "studio"

// App holds the wired application.
type App struct {
	config   *config.Config
	db       *gorm.DB
	redis    *goredis.Client
	router   *gin.Engine
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Shared outbound adapters
	httpClient  *http.Client
	rateLimiter outbound.RateLimiterPort
	styleCache  outbound.StyleCachePort
	assets      outbound.AssetStorePort

	// Domain services
	accountDomain    *account.Domain
	generationDomain *generation.Domain
	styleDomain      *style.Domain
	enhanceDomain    *style.EnhanceDomain
	billingDomain    *billing.Domain
}

// New creates a new application instance.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{
		config:     cfg,
		logger:     logger,
		registry:   registry,
		metrics:    metrics.New(metricsNamespace, registry),
		httpClient: httpclient.New(cfg.HTTPClient),
	}

	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	app.initDomains()
	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// initInfrastructure opens the database and the optional Redis and object
// storage connections.
func (a *App) initInfrastructure(ctx context.Context) error {
	db, err := database.New(&a.config.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.db = db

	if a.config.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, &a.config.Redis)
		if err != nil {
			a.logger.Warn("Redis connection failed, using in-process cache and limiter", zap.Error(err))
		} else {
			a.redis = client
		}
	}

	if a.redis != nil {
		a.rateLimiter = redisadapter.NewRateLimiter(a.redis)
		a.styleCache = redisadapter.NewStyleCache(a.redis)
	} else {
		a.rateLimiter = memory.NewRateLimiter()
		a.styleCache = memory.NewStyleCache()
	}

	if a.config.Storage.Bucket != "" {
		client, err := s3adapter.NewClient(ctx, a.config.Storage)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		a.assets = s3adapter.NewAssetStore(client, a.config.Storage)
	}

	return nil
}

// initDomains creates the domain services in dependency order.
func (a *App) initDomains() {
	accountsDB := postgres.NewAccountAdapter(a.db)
	ledger := postgres.NewLedgerAdapter(a.db)
	history := postgres.NewHistoryAdapter(a.db)
	transactions := postgres.NewTransactionAdapter(a.db)
	styles := postgres.NewStyleAdapter(a.db)

	a.accountDomain = account.NewAccountDomain(
		accountsDB,
		history,
		transactions,
		session.NewJWTIssuer(session.Config{
			Secret: a.config.Auth.JWTSecret,
			Expiry: a.config.Auth.TokenExpiry,
		}),
		account.Config{
			BcryptCost:  a.config.Auth.BcryptCost,
			AdminEmails: a.config.Auth.AdminEmails,
		},
		a.logger,
	)

	a.styleDomain = style.NewStyleDomain(styles, a.styleCache, a.metrics, a.logger)
	a.enhanceDomain = style.NewEnhanceDomain(postgres.NewEnhanceStyleAdapter(a.db), a.logger)

	a.generationDomain = generation.NewGenerationDomain(
		generation.Ports{
			Accounts:        accountsDB,
			Ledger:          ledger,
			History:         history,
			Transactions:    transactions,
			Styles:          styles,
			GeneratedImages: postgres.NewGeneratedImageAdapter(a.db),
			Assets:          a.assets,
		},
		a.newGateway(),
		a.metrics,
		generation.Config{AssetPrefix: a.config.Storage.Prefix},
		a.logger,
	)

	a.billingDomain = billing.NewBillingDomain(
		accountsDB,
		ledger,
		transactions,
		a.newPaymentProvider(),
		billing.Config{AppURL: a.config.Billing.AppURL, Currency: a.config.Billing.Currency},
		a.metrics,
		a.logger,
	)
}

func (a *App) newGateway() *generation.Gateway {
	upscale := a.config.AIBackend.Upscale
	policy := generation.DefaultUpscalePolicy()
	policy.Enabled = a.config.AIBackend.AutoUpscale
	if upscale.MaxAttempts > 0 {
		policy.MaxAttempts = upscale.MaxAttempts
	}
	if upscale.TargetMinDimension > 0 {
		policy.TargetMinDimension = upscale.TargetMinDimension
	}
	if upscale.TargetBytes > 0 {
		policy.TargetBytes = upscale.TargetBytes
	}
	if upscale.MaxMinDimension > 0 {
		policy.MaxMinDimension = upscale.MaxMinDimension
	}

	return generation.NewGateway(
		aibackend.NewClient(a.httpClient, a.config.AIBackend, a.metrics, a.logger),
		modelrun.NewClient(a.httpClient, a.config.ModelRun, a.metrics, a.logger),
		policy,
		a.logger,
	)
}

// newPaymentProvider returns nil for an unknown provider; checkouts then
// report that payments are not configured.
func (a *App) newPaymentProvider() outbound.PaymentProviderPort {
	switch a.config.Billing.Provider {
	case "", "paystack":
		return payment.NewPaystackAdapter(a.httpClient, a.config.Paystack, a.logger)
	case "stripe":
		return payment.NewStripeAdapter(a.httpClient, a.config.Stripe, a.logger)
	default:
		a.logger.Warn("unknown payment provider, checkout disabled", zap.String("provider", a.config.Billing.Provider))
		return nil
	}
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(a.config.Server.AllowOrigins))

	r.GET("/health", a.health)
	if a.config.Features.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	return r
}

// registerRoutes registers all HTTP routes under /api.
func (a *App) registerRoutes() {
	rl := a.config.RateLimit
	resp := ginadapter.NewResponder(a.config.Features.Production, a.logger)
	authRequired := middleware.RequireAuth(a.accountDomain)
	adminChain := []gin.HandlerFunc{authRequired, middleware.RequireAdmin(a.accountDomain, a.logger)}

	api := a.router.Group("/api")
	if rl.Enabled {
		api.Use(middleware.RateLimitByIP(a.rateLimiter, rl.GlobalLimit, rl.GlobalWindow, a.logger))
	}

	ginadapter.NewAuthAdapter(a.accountDomain, ginadapter.CookieConfig{Secure: a.config.Features.Production}, resp).
		RegisterRoutes(api, authRequired)
	ginadapter.NewStyleAdapter(a.styleDomain, resp).RegisterRoutes(api, adminChain...)
	ginadapter.NewEnhanceStyleAdapter(a.enhanceDomain, resp).RegisterRoutes(api, adminChain...)
	ginadapter.NewBillingAdapter(a.billingDomain, resp).RegisterRoutes(api, authRequired)

	protected := api.Group("", authRequired)
	ginadapter.NewUserAdapter(a.accountDomain, resp).RegisterRoutes(protected)

	images := protected.Group("")
	if rl.Enabled {
		images.Use(middleware.RateLimitByUser(a.rateLimiter, rl.GenerationLimit, rl.GenerationWindow, a.logger))
	}
	ginadapter.NewImageAdapter(a.generationDomain, resp).RegisterRoutes(images)

	ginadapter.NewAdminAdapter(a.accountDomain, resp).RegisterRoutes(api.Group("", adminChain...))
}

func (a *App) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}

	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unavailable"
	}
	if a.redis != nil {
		if err := a.redis.Ping(c.Request.Context()).Err(); err != nil {
			body["redis"] = "unavailable"
		}
	}
	c.JSON(status, body)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases connections held by the application.
func (a *App) Stop() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
	a.httpClient.CloseIdleConnections()
}
