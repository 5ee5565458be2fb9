package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/swim-lesson-gateway/api/swagger"
	"github.com/noah-isme/swim-lesson-gateway/internal/handler"
	internalmiddleware "github.com/noah-isme/swim-lesson-gateway/internal/middleware"
	"github.com/noah-isme/swim-lesson-gateway/internal/repository"
	"github.com/noah-isme/swim-lesson-gateway/internal/service"
	"github.com/noah-isme/swim-lesson-gateway/pkg/cache"
	"github.com/noah-isme/swim-lesson-gateway/pkg/config"
	"github.com/noah-isme/swim-lesson-gateway/pkg/database"
	"github.com/noah-isme/swim-lesson-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/swim-lesson-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/swim-lesson-gateway/pkg/middleware/requestid"
)

// @title Swim Lesson Gateway
// @version 1.0.0
// @description Session-aware gateway in front of the swimming lesson service
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logr.Fatal("invalid schedule timezone", zap.Error(err))
	}

	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.Sessions.Store == config.SessionStoreRedis || cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var db *sqlx.DB
	if cfg.Audit.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
		checks["postgres"] = db.PingContext
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var store service.RefreshScopeStore
	switch cfg.Sessions.Store {
	case config.SessionStoreRedis:
		store = repository.NewRefreshRepository(redisClient, cfg.Sessions.TTL)
	default:
		memory := repository.NewMemoryRefreshRepository(cfg.Sessions.TTL)
		go purgeExpired(ctx, memory, logr)
		store = memory
	}

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient, "gateway", logr), metricsSvc, cfg.Cache.TTL, logr, true)
	}

	var (
		auditSvc   *service.AuditService
		activityHd *handler.ActivityHandler
	)
	if db != nil {
		auditRepo := repository.NewAuditRepository(db)
		auditSvc = service.NewAuditService(auditRepo, metricsSvc, service.AuditConfig{
			Workers: cfg.Audit.Workers,
			Retries: cfg.Audit.Retries,
		}, logr)
		auditSvc.Start(ctx)
		activityHd = handler.NewActivityHandler(auditRepo)
	}

	upstream := service.NewUpstreamClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil, metricsSvc, logr)
	authSvc := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	sessionSvc := service.NewSessionService(store, upstream, metricsSvc, service.SessionConfig{
		StudentScreens:    cfg.Sessions.StudentScreens,
		InstructorScreens: cfg.Sessions.InstructorScreens,
	}, logr)
	availabilitySvc := service.NewAvailabilityService(upstream, cacheSvc, validate, loc, logr)
	lessonSvc := service.NewLessonService(upstream, sessionSvc, cacheSvc, validate, loc, logr)
	requestSvc := service.NewRequestService(upstream, sessionSvc, cacheSvc, validate, loc, logr)
	profileSvc := service.NewProfileService(upstream, sessionSvc, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(lessonSvc, loc, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	lessonHandler := handler.NewLessonHandler(lessonSvc, exportSvc)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Sessions:     handler.NewSessionHandler(sessionSvc),
		Profile:      handler.NewProfileHandler(profileSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Lessons:      lessonHandler,
		Requests:     handler.NewRequestHandler(requestSvc),
		Activity:     activityHd,
	}, handler.RouteMiddleware{
		Authenticate: internalmiddleware.JWT(authSvc),
		LoadSession:  internalmiddleware.Session(sessionSvc),
		Audit: func(action, resource string) gin.HandlerFunc {
			return internalmiddleware.Audit(auditSvc, action, resource)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "session_store", cfg.Sessions.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	auditSvc.Stop()
}

// purgeExpired drops idle in-memory scopes until ctx is cancelled.
func purgeExpired(ctx context.Context, store *repository.MemoryRefreshRepository, logr *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Purge(); n > 0 {
				logr.Debug("purged expired sessions", zap.Int("count", n))
			}
		}
	}
}
