package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/leaguepairings/scheduler/api/swagger"
	"github.com/leaguepairings/scheduler/internal/catalog"
	internalhandler "github.com/leaguepairings/scheduler/internal/handler"
	internalmiddleware "github.com/leaguepairings/scheduler/internal/middleware"
	"github.com/leaguepairings/scheduler/internal/scheduler"
	"github.com/leaguepairings/scheduler/internal/selector"
	"github.com/leaguepairings/scheduler/internal/service"
	"github.com/leaguepairings/scheduler/internal/weight"
	"github.com/leaguepairings/scheduler/pkg/cache"
	"github.com/leaguepairings/scheduler/pkg/config"
	"github.com/leaguepairings/scheduler/pkg/database"
	"github.com/leaguepairings/scheduler/pkg/logger"
	corsmiddleware "github.com/leaguepairings/scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/leaguepairings/scheduler/pkg/middleware/requestid"
)

// @title League Pairings Scheduler API
// @version 1.0
// @description Generates a conflict-free league schedule for a date window.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("preview cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	generationCache := cache.NewGenerationCache(redisClient, cfg.Redis.TTL)

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc, db)

	repo := catalog.NewRepository(db)
	loader := catalog.NewLoader(repo, cfg.Scheduling.RecentGamesWeeks)

	weightCfg := weight.Config{
		RecentGamesWeeks:  cfg.Scheduling.RecentGamesWeeks,
		RecentGamePenalty: cfg.Scheduling.RecentGamePenalty,
		IdealRankingDiff:  cfg.Scheduling.IdealRankingDiff,
	}
	selectorCfg := selector.Config{TimeLimitSeconds: cfg.Scheduling.ILPTimeLimitSeconds}

	schedulerSvc := scheduler.New(loader, weightCfg, selectorCfg, cfg.Scheduling.DefaultAlgorithm, generationCache, metricsSvc)
	scheduleHandler := internalhandler.NewScheduleHandler(schedulerSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/schedule", scheduleHandler.Generate)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
