package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ASHRREAL/guelph-schedule-generator/api/swagger"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/handler"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/middleware"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/repository"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/service"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/cache"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/config"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/database"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/jobs"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/logger"
	corsmiddleware "github.com/ASHRREAL/guelph-schedule-generator/pkg/middleware/cors"
	reqidmiddleware "github.com/ASHRREAL/guelph-schedule-generator/pkg/middleware/requestid"
)

// @title Guelph Schedule Generator API
// @version 1.0.0
// @description Course timetable planner: ranked conflict-free schedule combinations from scraped semester catalogs
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	catalogRepo := repository.NewCatalogRepository(db, metricsSvc)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	catalogSvc := service.NewCatalogService(catalogRepo, cacheRepo, logr, metricsSvc, service.CatalogServiceConfig{
		CacheTTL: cfg.Catalog.CacheTTL,
	})
	plannerSvc := service.NewPlannerService(catalogSvc, nil, logr, metricsSvc, service.PlannerConfig{
		MaxCombinations:  cfg.Planner.MaxCombinations,
		MaxResults:       cfg.Planner.MaxResults,
		LatestGraceSteps: cfg.Planner.LatestGraceSteps,
		FallbackLimit:    cfg.Planner.FallbackLimit,
	})
	exportSvc := service.NewExportService(nil, nil, nil, logr, metricsSvc)

	ingestQueue := jobs.NewQueue("catalog_import", func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(handler.CatalogImportJob)
		if !ok {
			return fmt.Errorf("unexpected payload type for job %s", job.ID)
		}
		_, err := catalogSvc.Import(ctx, payload.Semester, payload.Request.Catalog)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Ingest.Workers,
		BufferSize: cfg.Ingest.QueueSize,
		MaxRetries: cfg.Ingest.Retries,
		Logger:     logr,
	})
	ingestQueue.Start(context.Background())
	defer ingestQueue.Stop()

	plannerHandler := handler.NewPlannerHandler(plannerSvc, exportSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, ingestQueue)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/schedules/plan", plannerHandler.Plan)
		api.POST("/schedules/export", plannerHandler.Export)
		api.POST("/catalog/:semester", catalogHandler.Import)
		api.GET("/courses/search", catalogHandler.Search)
		api.GET("/courses/:code/sections", catalogHandler.Sections)
		api.GET("/semesters", catalogHandler.Semesters)
		api.GET("/semesters/:semester", catalogHandler.SemesterInfo)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
