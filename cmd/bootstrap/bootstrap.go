package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-appointment-booking/config"
	deliveryHttp "medical-appointment-booking/internal/delivery/http"
	"medical-appointment-booking/internal/delivery/http/handler"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/infrastructure/cache"
	"medical-appointment-booking/internal/infrastructure/database"
	"medical-appointment-booking/internal/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	CounterSync *service.CounterSyncService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, err
	}
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Redis only backs the counter mirror, so the service runs without it.
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			log.Warnf("Redis unavailable, counter mirror disabled: %v", err)
		} else {
			app.RedisClient = redisClient
		}
	}

	server, err := app.initializeServer()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// newLogger builds the JSON logger shared by every layer
func newLogger(level string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(parsed)
	return log, nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() (*http.Server, error) {
	cfg, db, log := app.Config, app.DB, app.Log

	isolation, err := cfg.DB.Isolation()
	if err != nil {
		return nil, err
	}

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	clientRepo := repository.NewClientRepository()
	doctorRepo := repository.NewDoctorRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	cancellationRepo := repository.NewCancellationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	reporter := service.NewAppointmentReporter(os.Stdout)

	var mirror usecase.CounterMirror
	if app.RedisClient != nil {
		app.CounterSync = service.NewCounterSyncService(db, app.RedisClient, log, doctorRepo)
		mirror = app.CounterSync
	}

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log,
		clientRepo, doctorRepo, appointmentRepo, cancellationRepo,
		auditService, reporter, mirror,
		usecase.AppointmentOptions{
			MinNoticeDays: cfg.Booking.MinNoticeDays,
			Isolation:     isolation,
		},
	)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, mirror)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, doctorHandler, auditLogHandler, loggingMiddleware, corsMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run syncs the counter mirror, starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	if app.CounterSync != nil {
		if err := app.CounterSync.SyncOnStartup(context.Background()); err != nil {
			app.Log.Warnf("Counter mirror sync failed, reads fall back to the database: %v", err)
		}
	}

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.App.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
