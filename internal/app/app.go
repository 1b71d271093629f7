package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/lanecodes/aemet-wind/internal/aemet"
	"github.com/lanecodes/aemet-wind/internal/config"
	"github.com/lanecodes/aemet-wind/internal/models"
	"github.com/lanecodes/aemet-wind/internal/scheduler"
	"github.com/lanecodes/aemet-wind/internal/server"
	metricsSvc "github.com/lanecodes/aemet-wind/internal/server/metrics"
	"github.com/lanecodes/aemet-wind/internal/services/cache"
	"github.com/lanecodes/aemet-wind/internal/services/inventory"
	"github.com/lanecodes/aemet-wind/internal/services/windseries"
	"github.com/lanecodes/aemet-wind/internal/storage"
	fLogger "github.com/lanecodes/aemet-wind/pkg/logger"
)

// ServiceContainer holds the initialized dependencies of a running app.
type ServiceContainer struct {
	Inventory *inventory.Service
	Wind      *windseries.Service
	Scheduler *scheduler.Scheduler

	Router     *gin.Engine
	Srv        *http.Server
	db         *sql.DB
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{cfg: cfg, l: logger, m: met}
}

// Start initializes services, runs the HTTP server and scheduler, and
// waits for the context to be cancelled before shutting down.
func (a *App) Start(ctx context.Context) error {
	container, err := a.init(ctx)
	if err != nil {
		return err
	}

	if err := container.Scheduler.Start(ctx); err != nil {
		return err
	}

	go func() {
		a.l.Info().Str("address", a.cfg.Server.Address).Msg("HTTP server running")
		if serveErr := container.Srv.ListenAndServe(); serveErr != nil &&
			!errors.Is(serveErr, http.ErrServerClosed) {
			a.l.Error().Err(serveErr).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	a.l.Info().Msg("shutdown signal received, stopping service")

	if err := a.Shutdown(container); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return nil
}

// Shutdown stops the scheduler, drains the HTTP server, and closes the
// archive and file logger.
func (a *App) Shutdown(container *ServiceContainer) error {
	container.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Srv.Shutdown(shutdownCtx); err != nil {
		a.l.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := container.db.Close(); err != nil {
		a.l.Error().Err(err).Msg("failed to close archive database")
	}

	if err := container.fileLogger.Sync(); err != nil {
		a.l.Error().Err(err).Msg("failed to sync file logger")
	}
	return nil
}

func (a *App) init(ctx context.Context) (*ServiceContainer, error) {
	a.l.Info().Msg("initializing aemet-wind service")

	fileLogger, err := fLogger.NewFileLogger(a.cfg.LogsPath)
	if err != nil {
		return nil, err
	}

	// Outbound HTTP with request logging.
	httpClient := &http.Client{
		Transport: fLogger.NewRoundTripper(fileLogger),
		Timeout:   time.Duration(a.cfg.API.RequestTimeout) * time.Second,
	}

	client := aemet.NewClient(aemet.Config{
		Key:          a.cfg.API.Key,
		BaseURL:      a.cfg.API.BaseURL,
		RequestDelay: time.Duration(a.cfg.API.RequestDelay) * time.Second,
		MaxRetries:   a.cfg.API.MaxRetries,
		RetryBackoff: time.Duration(a.cfg.API.RetryBackoff) * time.Second,
	}, httpClient, a.l)

	source := aemet.NewBreakerSource("AemetOpenData", aemet.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}, client)

	db, err := storage.Open(a.cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db, a.cfg.Storage.MigrationsDir); err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: a.cfg.Redis.Host + ":" + a.cfg.Redis.Port,
		DB:   a.cfg.Redis.DB,
	})
	ttl := time.Duration(a.cfg.Redis.LiveTime) * time.Hour

	inventorySvc := inventory.NewService(
		source,
		storage.NewStationRepository(db, a.l),
		cache.NewRedisClient[[]models.Station](redisClient, a.l, ttl),
		a.l,
	)
	windSvc := windseries.NewService(
		source,
		storage.NewWindRepository(db, a.l),
		cache.NewRedisClient[[]models.DailyWind](redisClient, a.l, ttl),
		a.l,
	)

	sched := scheduler.New(scheduler.Config{
		InventorySpec: a.cfg.Sync.InventorySpec,
		WindSpec:      a.cfg.Sync.WindSpec,
		Stations:      a.cfg.Sync.Stations,
		WindowDays:    a.cfg.Sync.WindowDays,
		OutputDir:     a.cfg.Sync.OutputDir,
	}, inventorySvc, windSvc, a.l)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(a.m.HTTPMiddleware())

	handler := server.NewHandler(inventorySvc, windSvc)
	v1 := router.Group("/api/v1")
	v1.GET("/stations", handler.GetStations)
	v1.GET("/stations/near", handler.GetStationsNear)
	v1.GET("/wind/daily", handler.GetDailyWind)
	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return &ServiceContainer{
		Inventory:  inventorySvc,
		Wind:       windSvc,
		Scheduler:  sched,
		Router:     router,
		Srv:        httpServer,
		db:         db,
		fileLogger: fileLogger,
	}, nil
}
