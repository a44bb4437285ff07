// Package main is the entry point for the refcast API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pagecraft/refcast/internal/api"
	"github.com/pagecraft/refcast/internal/auth"
	"github.com/pagecraft/refcast/internal/character"
	"github.com/pagecraft/refcast/internal/config"
	"github.com/pagecraft/refcast/internal/health"
	"github.com/pagecraft/refcast/internal/media"
	"github.com/pagecraft/refcast/internal/middleware"
	"github.com/pagecraft/refcast/internal/ranking"
	"github.com/pagecraft/refcast/internal/selection"
	"github.com/pagecraft/refcast/internal/shot"
	"github.com/pagecraft/refcast/internal/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Refcast API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	// Initialize logger
	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	// Tracing is active only when an OTLP endpoint is configured.
	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "refcast-api",
		Enabled:      cfg.OTLPEndpoint != "",
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register HTTP metrics", "error", err)
		os.Exit(1)
	}
	selectionMetrics := selection.NewMetrics()
	if err := selectionMetrics.Register(registry); err != nil {
		logger.Error("failed to register selection metrics", "error", err)
		os.Exit(1)
	}

	// Character storage: Postgres when configured, in-memory otherwise.
	var repo character.Repository
	var dbChecker api.HealthChecker
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}

		repo = character.NewPostgresRepository(db)
		dbChecker = health.NewDBChecker(db)
		logger.Info("using postgres character store")
	} else {
		repo = character.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory character store")
	}

	// Rate limit state: Redis when configured so limits hold across
	// replicas, per-process memory otherwise.
	var limitStore middleware.RateLimitStore
	var redisChecker api.HealthChecker
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		limitStore = middleware.NewRedisRateLimitStore(redisClient).WithMetrics(httpMetrics)
		redisChecker = health.NewRedisChecker(redisClient)
		logger.Info("using redis rate limit store", "addr", cfg.RedisAddr)
	} else {
		memStore := middleware.NewInMemoryRateLimitStore()
		limitStore = memStore
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				memStore.Cleanup()
			}
		}()
		logger.Warn("REDIS_ADDR not set, using in-memory rate limit store")
	}

	var jwtService *auth.JWTService
	if cfg.JWTPreviousSecret != "" {
		jwtService = auth.NewJWTServiceWithRotation(cfg.JWTSecret, cfg.JWTPreviousSecret)
	} else {
		jwtService = auth.NewJWTService(cfg.JWTSecret)
	}

	// LoadCalibration returns usable defaults even when the file is bad,
	// so a rejected calibration never blocks startup.
	weights, err := ranking.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		logger.Warn("scoring calibration rejected, using defaults", "error", err)
	}

	var resolver selection.MediaResolver = media.NoopResolver{}
	if cfg.MediaConfigured() {
		mediaResolver, err := media.NewResolver(media.ResolverConfig{
			BucketName:      cfg.MediaBucketName,
			AccessKeyID:     cfg.MediaAccessKeyID,
			SecretAccessKey: cfg.MediaSecretAccessKey,
			Endpoint:        cfg.MediaEndpoint,
		})
		if err != nil {
			logger.Error("failed to initialize media resolver", "error", err)
			os.Exit(1)
		}
		resolver = mediaResolver
		logger.Info("media resolver enabled", "bucket", cfg.MediaBucketName)
	}

	selectionService := selection.NewService(
		character.NewCollector(repo),
		weights,
		resolver,
		selectionMetrics,
		logger,
	)

	characterHandlers := api.NewCharacterHandlers(repo)
	selectionHandlers := api.NewSelectionHandlers(selectionService)
	shotHandlers := api.NewShotHandlers(shot.DefaultCatalog())
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	globalLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.GlobalRateLimit,
		WindowDuration:    time.Minute,
		Scope:             "global",
	}
	selectionLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.SelectionRateLimit,
		WindowDuration:    time.Minute,
		Scope:             "selection",
	}

	protected := http.NewServeMux()
	protected.HandleFunc("POST /characters", characterHandlers.CreateCharacter)
	protected.HandleFunc("GET /characters/{id}", characterHandlers.GetCharacter)
	protected.HandleFunc("POST /characters/{id}/images", characterHandlers.AddImage)
	protected.HandleFunc("GET /shot-templates", shotHandlers.ListTemplates)
	protected.HandleFunc("GET /shot-templates/{slug}", shotHandlers.GetTemplate)

	// Selection fans out scoring work per request, so it carries a
	// stricter limit on top of the global one.
	protected.Handle("POST /characters/{id}/select-image",
		middleware.RateLimiter(limitStore, selectionLimit, middleware.CallerKeyFunc())(
			http.HandlerFunc(selectionHandlers.SelectImage)))

	// Authentication runs before rate limiting so limits key on the
	// caller identity rather than the client IP.
	authenticated := middleware.Authenticate(jwtService)(
		middleware.RateLimiter(limitStore, globalLimit, middleware.CallerKeyFunc())(protected))

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", healthHandlers.Health)
	root.HandleFunc("GET /ready", healthHandlers.Ready)
	root.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	root.Handle("/", authenticated)

	// Apply middleware: RequestID -> Tracing -> Logging -> HTTPMetrics
	handler := middleware.RequestID(
		middleware.Tracing("refcast-api")(
			middleware.Logging(logger)(
				middleware.HTTPMetrics(httpMetrics)(root))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
