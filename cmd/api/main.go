package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sadeem-labs/staffing-api/api/swagger"
	"github.com/sadeem-labs/staffing-api/internal/handler"
	"github.com/sadeem-labs/staffing-api/internal/middleware"
	"github.com/sadeem-labs/staffing-api/internal/models"
	"github.com/sadeem-labs/staffing-api/internal/planner"
	"github.com/sadeem-labs/staffing-api/internal/repository"
	"github.com/sadeem-labs/staffing-api/internal/service"
	"github.com/sadeem-labs/staffing-api/pkg/cache"
	"github.com/sadeem-labs/staffing-api/pkg/config"
	"github.com/sadeem-labs/staffing-api/pkg/database"
	"github.com/sadeem-labs/staffing-api/pkg/export"
	"github.com/sadeem-labs/staffing-api/pkg/logger"
	corsmiddleware "github.com/sadeem-labs/staffing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sadeem-labs/staffing-api/pkg/middleware/requestid"
	"github.com/sadeem-labs/staffing-api/pkg/storage"
)

// @title Branch Staffing API
// @version 1.0.0
// @description Workload allocation and hiring gap analysis for school branches
// @BasePath /api/v1
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Planner.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(redisClient)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Planner.CacheTTL, logr, cacheRepo != nil)

	subjectRepo := repository.NewSubjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)

	plannerCfg := planner.DefaultConfig()
	if cfg.Planner.StandardCapacity > 0 {
		plannerCfg.StandardCapacity = cfg.Planner.StandardCapacity
	}
	if cfg.Planner.GapTopN > 0 {
		plannerCfg.GapTopN = cfg.Planner.GapTopN
	}
	engine := planner.NewEngine(plannerCfg)

	staffingSvc := service.NewStaffingService(subjectRepo, sectionRepo, teacherRepo, engine, cacheSvc, metricsSvc, logr, cfg.Planner.CacheTTL)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	exportSvc := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter())

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	reportSvc := service.NewReportService(reportRepo, staffingSvc, exportSvc, store, signer, metricsSvc, logr, service.ReportServiceConfig{
		Enabled:           cfg.Exports.Enabled,
		WorkerConcurrency: cfg.Exports.WorkerConcurrency,
		WorkerRetries:     cfg.Exports.WorkerRetries,
		CleanupInterval:   cfg.Exports.CleanupInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportSvc.Start(ctx)
	defer reportSvc.Stop()

	staffingHandler := handler.NewStaffingHandler(staffingSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.Middleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		staffing := api.Group("/staffing", middleware.JWT(authSvc))
		staffing.GET("/report",
			middleware.RequireRoles(models.RoleAdmin, models.RolePlanner, models.RoleViewer),
			staffingHandler.Report)
		staffing.GET("/class-mapping",
			middleware.RequireRoles(models.RoleAdmin, models.RolePlanner, models.RoleViewer),
			staffingHandler.ClassMapping)
		staffing.POST("/exports",
			middleware.RequireRoles(models.RoleAdmin, models.RolePlanner),
			reportHandler.CreateExport)
		staffing.GET("/exports/:id",
			middleware.RequireRoles(models.RoleAdmin, models.RolePlanner, models.RoleViewer),
			reportHandler.GetExport)
	}

	// Downloads authenticate via the signed token itself.
	r.GET("/export/:token", reportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
