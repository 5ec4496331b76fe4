package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sports-school-ops/api/swagger"
	"github.com/noah-isme/sports-school-ops/internal/handler"
	internalmiddleware "github.com/noah-isme/sports-school-ops/internal/middleware"
	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/internal/repository"
	"github.com/noah-isme/sports-school-ops/internal/service"
	"github.com/noah-isme/sports-school-ops/pkg/cache"
	"github.com/noah-isme/sports-school-ops/pkg/config"
	"github.com/noah-isme/sports-school-ops/pkg/database"
	"github.com/noah-isme/sports-school-ops/pkg/export"
	"github.com/noah-isme/sports-school-ops/pkg/jobs"
	"github.com/noah-isme/sports-school-ops/pkg/logger"
	corsmiddleware "github.com/noah-isme/sports-school-ops/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sports-school-ops/pkg/middleware/requestid"
	"github.com/noah-isme/sports-school-ops/pkg/storage"
)

// @title Sports School Dashboard API
// @version 1.0.0
// @description Unit dashboard for a sports school: spreadsheet sync, roll calls, trial lessons and retention alerts
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()

	store, closeStore, err := openSnapshotStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open snapshot store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closeStore()

	persistence := service.NewPersistenceService(store, metricsSvc, logr)
	state := service.NewAppState(persistence, service.StateDefaults{
		Settings: models.Settings{
			ScriptURL:         cfg.Remote.ScriptURL,
			MessagingURL:      cfg.Messaging.WebhookURL,
			MessagingToken:    cfg.Messaging.Token,
			RetentionTemplate: cfg.Templates.Retention,
			TrialTemplate:     cfg.Templates.Trial,
			GeneralTemplate:   cfg.Templates.General,
		},
		AdminLogin:    cfg.Seed.AdminLogin,
		AdminPassword: cfg.Seed.AdminPassword,
	}, logr)
	state.Load(ctx)

	validate := validator.New()
	sheets := repository.NewSheetRepository(cfg.Remote.Timeout, logr)
	whatsapp := repository.NewWhatsAppRepository(cfg.Messaging.Timeout)

	pushSvc := service.NewPushService(sheets, state, metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Remote.PushWorkers,
		MaxRetries: cfg.Remote.PushRetries,
		RetryDelay: cfg.Remote.PushRetryDelay,
		Logger:     logr,
	})
	pushSvc.Start(ctx)
	defer pushSvc.Stop()

	syncSvc := service.NewSyncService(sheets, state, metricsSvc, logr, service.SyncConfig{NoticeTTL: cfg.Sync.NoticeTTL})
	if cfg.Sync.OnStartup {
		syncSvc.SyncInBackground(ctx)
	}

	authSvc := service.NewAuthService(state, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	messagingSvc := service.NewMessagingService(whatsapp, state, metricsSvc, logr)
	retentionSvc := service.NewRetentionService(state, messagingSvc, export.NewCSVExporter(), export.NewPDFExporter(), metricsSvc, logr)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Sync:         handler.NewSyncHandler(syncSvc),
		Students:     handler.NewStudentHandler(service.NewStudentService(state, logr)),
		Classes:      handler.NewClassHandler(service.NewClassService(state), service.NewEnrollmentService(state)),
		Attendance:   handler.NewAttendanceHandler(service.NewAttendanceService(state, pushSvc, validate, logr)),
		TrialLessons: handler.NewTrialLessonHandler(service.NewTrialLessonService(state, pushSvc, messagingSvc, validate, logr)),
		Retention:    handler.NewRetentionHandler(retentionSvc),
		Messages:     handler.NewMessageHandler(messagingSvc),
		Settings:     handler.NewSettingsHandler(service.NewSettingsService(state, validate, logr)),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(state, logr)),
		Metrics:      handler.NewMetricsHandler(metricsSvc, syncSvc),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

type snapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// openSnapshotStore picks the persistence backend from STORE_DRIVER.
func openSnapshotStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (snapshotStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisSnapshotRepository(client, cfg.Store.KeyPrefix, logr)
		return repo, closer(logr, "redis", repo), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSnapshotRepository(db), closer(logr, "postgres", db), nil
	case config.StoreDriverFile, "":
		local, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileSnapshotRepository(local), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func closer(logr *zap.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logr.Sugar().Warnw("failed to close snapshot store", "driver", name, "error", err)
		}
	}
}
