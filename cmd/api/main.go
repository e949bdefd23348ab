package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/pos-toko/internal/cart"
	"github.com/noah-isme/pos-toko/internal/catalog"
	"github.com/noah-isme/pos-toko/internal/checkout"
	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/config"
	"github.com/noah-isme/pos-toko/internal/dashboard"
	"github.com/noah-isme/pos-toko/internal/events"
	"github.com/noah-isme/pos-toko/internal/health"
	"github.com/noah-isme/pos-toko/internal/history"
	"github.com/noah-isme/pos-toko/internal/obs"
	"github.com/noah-isme/pos-toko/internal/receipt"
	"github.com/noah-isme/pos-toko/internal/security"
	"github.com/noah-isme/pos-toko/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "pos")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()

	// Redis is optional: a standalone terminal runs without a cache, a
	// multi-terminal shop points every device at one instance.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
	}

	bus := &events.Bus{Store: st}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Storage:                  st,
		Cache:                    catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Bus:                      bus,
		DefaultLowStockThreshold: cfg.DefaultLowStockThreshold,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build catalog service")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	bus.Notifiers = append(bus.Notifiers, &catalog.StockApplier{
		Storage: st,
		Bus:     bus,
		Logger:  logger.With().Str("component", "stock").Logger(),
	})

	session := cart.NewSession(cfg.DefaultTaxRateBps)
	cartHandler := &cart.Handler{
		Session:           session,
		Catalog:           catalogService,
		DefaultTaxRateBps: cfg.DefaultTaxRateBps,
	}

	receipts := &receipt.Renderer{StoreName: cfg.StoreName, Width: cfg.ReceiptWidth}

	checkoutService := &checkout.Service{
		Session:           session,
		History:           st,
		Bus:               bus,
		Logger:            logger.With().Str("component", "checkout").Logger(),
		DefaultTaxRateBps: cfg.DefaultTaxRateBps,
	}
	checkoutHandler := &checkout.Handler{Service: checkoutService, Receipts: receipts}

	historyService := &history.Service{Storage: st}
	historyHandler := &history.Handler{Service: historyService, Receipts: receipts}

	dashboardHandler := &dashboard.Handler{Service: &dashboard.Service{Storage: st}}

	idem := common.Idem{R: redisClient, TTL: 2 * time.Minute}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(cfg.MetricsBucketsCSV)
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
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(security.BodyLimit{Max: 1 << 20}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker: health.Probes{Store: st, Redis: redisClient},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.Products)
		v.Post("/products", catalogHandler.CreateProduct)
		v.Get("/products/low-stock", catalogHandler.LowStock)
		v.Get("/products/{id}", catalogHandler.ProductDetail)
		v.Put("/products/{id}", catalogHandler.UpdateProduct)
		v.Delete("/products/{id}", catalogHandler.DeleteProduct)

		v.Get("/categories", catalogHandler.Categories)
		v.Post("/categories", catalogHandler.CreateCategory)
		v.Delete("/categories/{name}", catalogHandler.DeleteCategory)

		v.Get("/suppliers", catalogHandler.Suppliers)
		v.Post("/suppliers", catalogHandler.CreateSupplier)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Get("/quote", cartHandler.Quote)
			c.Post("/items", cartHandler.AddItem)
			c.Patch("/items/{productId}", cartHandler.UpdateItem)
			c.Delete("/items/{productId}", cartHandler.RemoveItem)
			c.Post("/discount", cartHandler.SetDiscount)
			c.Post("/tax-rate", cartHandler.SetTaxRate)
			c.Post("/cancel", cartHandler.Cancel)
		})

		v.With(idem.Middleware).Post("/checkout", checkoutHandler.Complete)

		v.Get("/transactions", historyHandler.List)
		v.Get("/transactions/{id}", historyHandler.Get)
		v.Get("/transactions/{id}/receipt", historyHandler.Receipt)

		v.Get("/dashboard/summary", dashboardHandler.Summary)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		health.SetReady(false)
		drain, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(drain); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Str("store", cfg.StoreName).Msg("server starting")
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

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
