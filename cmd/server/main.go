package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nikola411/score-tracker/internal/api"
	"github.com/nikola411/score-tracker/internal/api/handlers"
	"github.com/nikola411/score-tracker/internal/api/middleware"
	"github.com/nikola411/score-tracker/internal/cache"
	"github.com/nikola411/score-tracker/internal/providers"
	"github.com/nikola411/score-tracker/internal/services"
	"github.com/nikola411/score-tracker/pkg/config"
	"github.com/nikola411/score-tracker/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger("info", cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Select cache backend
	store, cleanup, err := newStore(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize cache store: %v", err)
	}
	defer cleanup()

	// Circuit breakers shared by all upstream clients
	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, 30*time.Second, log)

	// Upstream provider adapters
	euroleague := providers.NewEuroleagueClient(store, breakers, log, cfg.RoundFetchDelay)
	nba := providers.NewNBAClient(store, breakers, log, cfg.ExternalAPITimeout)

	aggregator := services.NewStatsAggregator(log, euroleague, nba)

	// Scheduled re-population plus initial warm-up
	dataFetcher := services.NewDataFetcherService([]providers.StatsProvider{euroleague, nba}, log, cfg.RefreshSchedule)
	if err := dataFetcher.Start(); err != nil {
		log.Errorf("Failed to start data fetcher: %v", err)
	}
	defer dataFetcher.Stop()

	if !cfg.SkipInitialFetch {
		go dataFetcher.PopulateAll(context.Background())
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness and readiness probes at the root
	healthHandler := handlers.NewHealthHandler(dataFetcher)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// API routes
	apiGroup := router.Group("/api")
	api.SetupRoutes(apiGroup, aggregator)

	// Serve the dashboard build, falling back to index.html for client routes
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		router.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(filepath.Join(cfg.StaticDir, "index.html"))
		})
	} else {
		log.Warnf("Static dir %s not found, dashboard will not be served", cfg.StaticDir)
	}

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// newStore builds the configured cache backend. The returned cleanup is
// always safe to call.
func newStore(cfg *config.Config, log *logrus.Logger) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, func() {}, fmt.Errorf("connect to redis: %w", err)
		}
		return cache.NewRedisStore(client, log), func() { client.Close() }, nil
	case "file", "":
		return cache.NewFileStore(cfg.CacheDir, log), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
