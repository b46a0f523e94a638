package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fleetops/fleet-payroll-api/api/swagger"
	"github.com/fleetops/fleet-payroll-api/internal/handler"
	"github.com/fleetops/fleet-payroll-api/internal/middleware"
	"github.com/fleetops/fleet-payroll-api/internal/repository"
	"github.com/fleetops/fleet-payroll-api/internal/service"
	"github.com/fleetops/fleet-payroll-api/pkg/cache"
	"github.com/fleetops/fleet-payroll-api/pkg/config"
	"github.com/fleetops/fleet-payroll-api/pkg/database"
	"github.com/fleetops/fleet-payroll-api/pkg/jobs"
	"github.com/fleetops/fleet-payroll-api/pkg/logger"
	corsmiddleware "github.com/fleetops/fleet-payroll-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fleetops/fleet-payroll-api/pkg/middleware/requestid"
	"github.com/fleetops/fleet-payroll-api/pkg/storage"
)

// @title Fleet Payroll API
// @version 1.0.0
// @description Boat crew attendance, payroll and expense reporting
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Reports still work without Redis, just uncached.
		logr.Sugar().Warnw("redis unavailable, report caching disabled and export creation refused", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	employeeRepo := repository.NewEmployeeRepository(db)
	boatRepo := repository.NewBoatRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	employeeSvc := service.NewEmployeeService(employeeRepo, cacheRepo, validate, logr)
	boatSvc := service.NewBoatService(boatRepo, cacheRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, employeeRepo, cacheRepo, validate, logr)
	reportSvc := service.NewReportService(attendanceRepo, boatRepo, cacheRepo, service.ReportConfig{
		CashRoundingStep: cfg.Payroll.CashRoundingStep,
		CacheEnabled:     cfg.Reports.CacheEnabled,
		CacheTTL:         cfg.Reports.CacheTTL,
	}, logr)
	reportSvc.SetMetrics(metricsSvc)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(reportSvc, exportStore, cacheRepo, signer, service.ExportConfig{
		APIPrefix:    cfg.APIPrefix,
		SignedURLTTL: cfg.Exports.SignedURLTTL,
	}, validate, logr)

	exportQueue := jobs.NewQueue("exports", exportSvc.ProcessJob, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportQueue.Start(context.Background())
	defer exportQueue.Stop()
	exportSvc.SetQueue(exportQueue)

	go func() {
		ticker := time.NewTicker(cfg.Exports.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			exportSvc.CleanupExpired()
		}
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	boatHandler := handler.NewBoatHandler(boatSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/employees", employeeHandler.List)
		api.POST("/employees", employeeHandler.Create)
		api.GET("/employees/:id", employeeHandler.Get)
		api.PUT("/employees/:id", employeeHandler.Update)
		api.DELETE("/employees/:id", employeeHandler.Delete)

		api.GET("/boats", boatHandler.List)
		api.POST("/boats", boatHandler.Create)
		api.GET("/boats/:id", boatHandler.Get)
		api.PUT("/boats/:id", boatHandler.Update)
		api.DELETE("/boats/:id", boatHandler.Delete)

		api.GET("/attendance", attendanceHandler.List)
		api.POST("/attendance", attendanceHandler.Mark)
		api.DELETE("/attendance/:id", attendanceHandler.Delete)

		api.GET("/reports/boats/:id/analysis", reportHandler.BoatAnalysis)
		api.GET("/reports/expenses", reportHandler.Expenses)
		api.GET("/reports/payroll", reportHandler.Payroll)

		api.POST("/exports", exportHandler.Create)
		api.GET("/exports/:id", exportHandler.Status)
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
