package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/brightclass/class-rewards-api/api/swagger"
	"github.com/brightclass/class-rewards-api/internal/handler"
	"github.com/brightclass/class-rewards-api/internal/middleware"
	"github.com/brightclass/class-rewards-api/internal/repository"
	"github.com/brightclass/class-rewards-api/internal/service"
	"github.com/brightclass/class-rewards-api/pkg/cache"
	"github.com/brightclass/class-rewards-api/pkg/config"
	"github.com/brightclass/class-rewards-api/pkg/database"
	"github.com/brightclass/class-rewards-api/pkg/export"
	"github.com/brightclass/class-rewards-api/pkg/logger"
	corsmiddleware "github.com/brightclass/class-rewards-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brightclass/class-rewards-api/pkg/middleware/requestid"
)

// @title Class Rewards API
// @version 1.0.0
// @description Classroom behavior reward tracking for teachers
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	groupWorkRepo := repository.NewGroupWorkRepository(db)
	pointRepo := repository.NewPointRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(teacherRepo, behaviorRepo, validate, logr, service.AuthConfig{
		TokenSecret:     cfg.JWT.Secret,
		TokenExpiry:     cfg.JWT.Expiration,
		Issuer:          cfg.JWT.Issuer,
		DefaultsAccount: cfg.Seed.DefaultTeacherEmail,
	})
	leaderboardSvc := service.NewLeaderboardService(studentRepo, classRepo, cacheRepo, metricsSvc, service.LeaderboardConfig{
		CacheEnabled: cfg.Leaderboard.CacheEnabled,
		CacheTTL:     cfg.Leaderboard.CacheTTL,
	}, logr)
	behaviorSvc := service.NewBehaviorService(behaviorRepo, teacherRepo, validate, logr, cfg.Seed.DefaultTeacherEmail)
	classSvc := service.NewClassService(classRepo, leaderboardSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, behaviorRepo, leaderboardSvc, validate, logr)
	groupWorkSvc := service.NewGroupWorkService(groupWorkRepo, classRepo, validate, logr)
	awardSvc := service.NewAwardService(awardRepo, groupWorkRepo, behaviorRepo, studentRepo, leaderboardSvc, validate, logr)
	pointSvc := service.NewPointService(pointRepo, studentRepo, groupWorkRepo, validate, logr)
	reportSvc := service.NewReportService(studentRepo, classRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	behaviorHandler := handler.NewBehaviorHandler(behaviorSvc)
	classHandler := handler.NewClassHandler(classSvc, leaderboardSvc, reportSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, metricsSvc)
	groupWorkHandler := handler.NewGroupWorkHandler(groupWorkSvc)
	awardHandler := handler.NewAwardHandler(awardSvc, metricsSvc)
	pointHandler := handler.NewPointHandler(pointSvc)
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
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/teachers", authHandler.Register)
	api.PUT("/teachers", authHandler.Login)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/teachers/me", authHandler.Me)

	authed.GET("/behaviors", behaviorHandler.List)
	authed.POST("/behaviors", behaviorHandler.Create)
	authed.PUT("/behaviors/:id", behaviorHandler.Update)
	authed.DELETE("/behaviors/:id", behaviorHandler.Delete)

	authed.GET("/classes", classHandler.List)
	authed.POST("/classes", classHandler.Create)
	authed.PUT("/classes/:id", classHandler.Update)
	authed.DELETE("/classes/:id", classHandler.Delete)
	authed.GET("/classes/:id/leaderboard", classHandler.Leaderboard)
	authed.GET("/classes/:id/report", classHandler.Report)

	authed.GET("/students", studentHandler.List)
	authed.POST("/students", studentHandler.Create)
	authed.PUT("/students", studentHandler.AwardPoints)
	authed.DELETE("/students/:id", studentHandler.Delete)

	authed.GET("/group-works", groupWorkHandler.List)
	authed.POST("/group-works", groupWorkHandler.Create)
	authed.GET("/group-works/:id", groupWorkHandler.Get)
	authed.PUT("/group-works/:id", groupWorkHandler.Update)
	authed.DELETE("/group-works/:id", groupWorkHandler.Delete)
	authed.GET("/group-works/:id/leaderboard", groupWorkHandler.Leaderboard)

	authed.POST("/group-work-awards", awardHandler.Create)
	authed.GET("/group-work-awards", awardHandler.History)

	authed.GET("/points", pointHandler.History)
	authed.GET("/group-points", pointHandler.GroupHistory)
	authed.POST("/group-points", pointHandler.AppendGroupPoint)
	authed.PUT("/group-points/:id", pointHandler.UpdateGroupPoint)
	authed.DELETE("/group-points/:id", pointHandler.DeleteGroupPoint)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
