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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusops/faculty-leave-api/api/swagger"
	"github.com/campusops/faculty-leave-api/internal/handler"
	"github.com/campusops/faculty-leave-api/internal/middleware"
	"github.com/campusops/faculty-leave-api/internal/repository"
	"github.com/campusops/faculty-leave-api/internal/service"
	"github.com/campusops/faculty-leave-api/pkg/cache"
	"github.com/campusops/faculty-leave-api/pkg/config"
	"github.com/campusops/faculty-leave-api/pkg/database"
	"github.com/campusops/faculty-leave-api/pkg/jobs"
	"github.com/campusops/faculty-leave-api/pkg/logger"
	corsmiddleware "github.com/campusops/faculty-leave-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/faculty-leave-api/pkg/middleware/requestid"
	"github.com/campusops/faculty-leave-api/pkg/notify"
)

// @title Faculty Leave API
// @version 1.0.0
// @description Leave entitlements, schedules and notifications for faculty members.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// the dashboard cache degrades to recomputing on every request
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New()

	facultyRepo := repository.NewFacultyRepository(db)
	ledgerRepo := repository.NewLeaveLedgerRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	invigilationRepo := repository.NewInvigilationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	var gateway notify.Gateway = notify.Noop{}
	if cfg.Notifications.Enabled {
		gateway = notify.NewHTTPGateway(cfg.Notifications, logr)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "faculty-leave-api",
	})
	facultyService := service.NewFacultyService(facultyRepo, validate, logr)
	leaveService := service.NewLeaveService(ledgerRepo, gateway, validate, logr)
	reportService := service.NewReportService(facultyRepo, ledgerRepo, cfg.Reports.LowBalanceThreshold, logr)
	scheduleService := service.NewScheduleService(lectureRepo, cfg.Dashboard.WindowDays, validate, logr)
	invigilationService := service.NewInvigilationService(invigilationRepo, validate, logr)
	importService := service.NewImportService(facultyRepo, lectureRepo, invigilationRepo, validate, logr)
	messageService := service.NewMessageService(messageRepo, gateway, validate, logr, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	dashboardService := service.NewDashboardService(reportService, scheduleService, invigilationRepo, redisClient, cfg.Dashboard.CacheTTL, logr)
	metricsService := service.NewMetricsService()

	if err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logr.Sugar().Fatalw("failed to seed admin account", "error", err)
	}

	messageService.StartDelivery(ctx)
	defer messageService.StopDelivery()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Faculty:      handler.NewFacultyHandler(facultyService, importService, metricsService),
		Leave:        handler.NewLeaveHandler(leaveService),
		Reports:      handler.NewReportHandler(reportService),
		Lectures:     handler.NewLectureHandler(scheduleService, importService, metricsService),
		Invigilation: handler.NewInvigilationHandler(invigilationService, importService, metricsService),
		Messages:     handler.NewMessageHandler(messageService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}, authService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
