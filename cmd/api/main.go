package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/cart"
	"github.com/noah-isme/backend-bar/internal/catalog"
	"github.com/noah-isme/backend-bar/internal/checkout"
	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/config"
	"github.com/noah-isme/backend-bar/internal/db"
	"github.com/noah-isme/backend-bar/internal/events"
	"github.com/noah-isme/backend-bar/internal/export"
	"github.com/noah-isme/backend-bar/internal/health"
	"github.com/noah-isme/backend-bar/internal/obs"
	"github.com/noah-isme/backend-bar/internal/order"
	"github.com/noah-isme/backend-bar/internal/pricing"
	"github.com/noah-isme/backend-bar/internal/ratelimit"
	"github.com/noah-isme/backend-bar/internal/repo"
	"github.com/noah-isme/backend-bar/internal/report"
	"github.com/noah-isme/backend-bar/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "bar")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, "bar-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	validate := validator.New()
	store := repo.Store{Pool: pool}
	bus := &events.Bus{
		Notifiers: []events.Notifier{
			events.LogNotifier{Logger: logger},
			report.CacheInvalidator{R: redisClient},
		},
		Logger: logger,
	}
	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	catalogSvc := &catalog.Service{Store: store, Events: bus}
	catalogHandler := &catalog.Handler{Svc: catalogSvc, Validate: validate}

	pricingSvc := &pricing.Service{
		Store:        store,
		SoldFactor:   cfg.PriceSoldFactor,
		OthersFactor: cfg.PriceOthersFactor,
		Events:       bus,
	}
	pricingHandler := &pricing.Handler{Svc: pricingSvc, Validate: validate}

	reportSvc := &report.Service{Q: store, R: redisClient, TTL: cfg.ReportCacheTTL}
	reportHandler := &report.Handler{Svc: reportSvc, Export: export.WriteReport}

	cartSvc := &cart.Service{R: redisClient, Drinks: store, TTL: cfg.CartTTL}
	cartHandler := &cart.Handler{Svc: cartSvc, Validate: validate}

	checkoutSvc := &checkout.Service{
		Pool:         pool,
		Carts:        cartSvc,
		SoldFactor:   cfg.PriceSoldFactor,
		OthersFactor: cfg.PriceOthersFactor,
		Events:       bus,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc, Validate: validate}

	orderHandler := &order.Handler{Q: store}

	salesLimiter := ratelimit.Handler{
		Limiter: ratelimit.SlidingWindow{Client: redisClient, Prefix: "rl:sales:"},
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.SalesRateWindow,
			Max:    cfg.SalesRateMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeadersEnabled}.Middleware)
	r.Use(security.MaxBody(1 << 20))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Prober:       readinessProber{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/drinks", catalogHandler.List)
		v.Post("/drinks", catalogHandler.Create)
		v.Put("/drinks/{id}", catalogHandler.Update)
		v.Delete("/drinks/{id}", catalogHandler.Delete)
		v.Post("/drinks/reset", catalogHandler.Reset)

		v.With(salesLimiter.Middleware, idem.Middleware).Post("/sales", pricingHandler.RecordSale)

		v.Get("/report", reportHandler.Get)
		v.Get("/report/export", reportHandler.Download)

		v.Route("/carts", func(c chi.Router) {
			c.Post("/", cartHandler.Create)
			c.Get("/{id}", cartHandler.Get)
			c.Post("/{id}/items", cartHandler.AddItem)
			c.Patch("/{id}/items/{drinkId}", cartHandler.UpdateItem)
			c.Delete("/{id}/items/{drinkId}", cartHandler.RemoveItem)
		})

		v.With(idem.Middleware).Post("/checkout", checkoutHandler.Checkout)
		v.Get("/orders", orderHandler.List)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		health.SetReady(false)
		drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer drainCancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessProber struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (p readinessProber) PingDB(ctx context.Context, timeout time.Duration) error {
	if p.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.db.Ping(ctx)
}

func (p readinessProber) PingRedis(ctx context.Context, timeout time.Duration) error {
	if p.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
