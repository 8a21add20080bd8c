package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tippliga/internal/cache"
	"tippliga/internal/config"
	cronrunner "tippliga/internal/cron"
	"tippliga/internal/db"
	"tippliga/internal/handler"
	"tippliga/internal/logger"
	"tippliga/internal/metrics"
	gormrepository "tippliga/internal/repository/gorm"
	"tippliga/internal/scoring"
	"tippliga/internal/service"
	"tippliga/internal/settlement"
)

func main() {
	cfgPath := os.Getenv("TL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	var invalidator *cache.Invalidator
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, cache invalidation degraded", zap.Error(err))
		}
		invalidator = &cache.Invalidator{
			Client:    redisClient,
			Logger:    logger,
			ScanCount: cfg.Cache.ScanCount,
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	settlementMetrics := metrics.NewSettlement(registry)

	store := gormrepository.New(dbConn.Gorm)
	coordinator := &settlement.Coordinator{
		Repo:    store,
		Cache:   invalidator,
		Logger:  logger,
		Metrics: settlementMetrics,
		Scoring: scoring.FromConfig(cfg.Scoring),
		Config:  cfg.Settlement,
	}
	sweeper := &service.ResettlementSweeper{
		Repo:        store,
		Coordinator: coordinator,
		Logger:      logger,
		Config:      cfg.Sweeper,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	settlementHandler := &handler.SettlementHandler{
		Coordinator: coordinator,
		Repo:        store,
		Logger:      logger,
	}
	settlementHandler.Register(engine)
	fixtureHandler := &handler.FixtureHandler{Repo: store}
	fixtureHandler.Register(engine)
	leaderboardHandler := &handler.LeaderboardHandler{Repo: store}
	leaderboardHandler.Register(engine)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.Sweeper.Enabled {
		_, err := cronRunner.Add(cfg.Cron.Sweep, func(ctx context.Context) {
			if err := sweeper.RunOnce(ctx); err != nil {
				logger.Warn("resettlement sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register sweep failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
