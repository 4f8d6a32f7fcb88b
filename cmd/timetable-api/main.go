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
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/handler"
	"github.com/noah-isme/unitime-api/internal/models"
	"github.com/noah-isme/unitime-api/internal/repository"
	"github.com/noah-isme/unitime-api/internal/service"
	"github.com/noah-isme/unitime-api/migrations"
	"github.com/noah-isme/unitime-api/pkg/cache"
	"github.com/noah-isme/unitime-api/pkg/config"
	"github.com/noah-isme/unitime-api/pkg/database"
	"github.com/noah-isme/unitime-api/pkg/jobs"
	"github.com/noah-isme/unitime-api/pkg/logger"
)

// @title UniTime Timetable API
// @version 1.0.0
// @description Conflict detection and resolution for university timetables
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(cfg, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	app, err := build(cfg, db, redisClient, logr)
	if err != nil {
		logr.Fatal("failed to build application", zap.Error(err))
	}
	if app.scanQueue != nil {
		app.scanQueue.Start(ctx)
		defer app.scanQueue.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// connectRedis returns nil when caching is off or Redis is unreachable.
func connectRedis(cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.Catalog.CacheEnabled {
		return nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, venue catalog cache disabled", zap.Error(err))
		return nil
	}
	return client
}

type application struct {
	router    *gin.Engine
	scanQueue *jobs.Queue
}

func build(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) (*application, error) {
	periods := models.DefaultPeriodTable()
	if len(cfg.Timetable.Periods) > 0 {
		table, err := models.NewPeriodTable(cfg.Timetable.Periods)
		if err != nil {
			return nil, fmt.Errorf("timetable periods: %w", err)
		}
		periods = table
	}
	days := models.WeekdaySet(cfg.Timetable.DaysPerWeek).Normalize()
	mapper := dto.NewSessionMapper(periods, days)

	departmentSeverity, err := conflict.ParseSeverityTable(cfg.Conflicts.DepartmentSeverity, conflict.DepartmentSeverity())
	if err != nil {
		return nil, fmt.Errorf("department severity: %w", err)
	}
	masterSeverity, err := conflict.ParseSeverityTable(cfg.Conflicts.MasterSeverity, conflict.MasterSeverity())
	if err != nil {
		return nil, fmt.Errorf("master severity: %w", err)
	}
	mode, ok := conflict.ParseAutoResolveMode(cfg.Conflicts.AutoResolveMode)
	if !ok {
		return nil, fmt.Errorf("unknown auto resolve mode %q", cfg.Conflicts.AutoResolveMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	timetableRepo := repository.NewTimetableRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled && redisClient != nil)

	scopes := service.NewScopeLoader(timetableRepo, sessionRepo).WithMetrics(metrics)
	venueSvc := service.NewVenueCatalogService(venueRepo, scopes, cacheSvc, cfg.Catalog.CacheTTL, mapper, validate, logr)
	conflictSvc := service.NewConflictService(scopes, sessionRepo, venueSvc, mapper, service.ConflictServiceConfig{
		DepartmentSeverity: departmentSeverity,
		MasterSeverity:     masterSeverity,
		MasterDays:         models.WeekdaySet(cfg.Timetable.MasterDaysPerWeek),
		PlaceholderVenue:   cfg.Conflicts.PlaceholderVenue,
		AutoResolveMode:    mode,
		MaxIterations:      cfg.Conflicts.MaxIterations,
	}, metrics, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, scopes, timetableRepo, mapper, validate, logr)

	var (
		scanner   *service.MasterScanner
		scanQueue *jobs.Queue
	)
	if cfg.MasterScan.Enabled {
		scanner = service.NewMasterScanner(conflictSvc, metrics, logr)
		scanQueue = jobs.NewQueue("master-scan", scanner.Handle, jobs.QueueConfig{
			Workers:    cfg.MasterScan.Workers,
			MaxRetries: cfg.MasterScan.Retries,
			Logger:     logr,
			Observer:   scanner.Observe,
		})
		scanner.UseQueue(scanQueue)
	}

	var timetableSvc *service.TimetableService
	var conflictHandler *handler.ConflictHandler
	if scanner != nil {
		timetableSvc = service.NewTimetableService(timetableRepo, scanner, days, validate, logr)
		conflictHandler = handler.NewConflictHandler(conflictSvc, scanner)
	} else {
		timetableSvc = service.NewTimetableService(timetableRepo, nil, days, validate, logr)
		conflictHandler = handler.NewConflictHandler(conflictSvc, nil)
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	router := newRouter(cfg, logr, metrics, routeHandlers{
		timetables: handler.NewTimetableHandler(timetableSvc),
		sessions:   handler.NewSessionHandler(sessionSvc),
		conflicts:  conflictHandler,
		venues:     handler.NewVenueHandler(venueSvc),
		metrics:    handler.NewMetricsHandler(metrics, checks),
	})
	return &application{router: router, scanQueue: scanQueue}, nil
}
