package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/config"
	deliveryHttp "github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/handler"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/infrastructure/cache"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/infrastructure/database"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/repository"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/service"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/usecase"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/jwt"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Apply schema migrations before anything touches the tables
	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Rebuild slot holds from the database before accepting bookings, so a
	// Redis restart cannot expose already-booked slots
	slotHoldService := service.NewSlotHoldService(db, redisClient, logrus.StandardLogger())
	if err := slotHoldService.SyncOnStartup(context.Background()); err != nil {
		logrus.Warnf("Slot hold sync failed, continuing with database checks only: %v", err)
	}

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient, slotHoldService)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, slotHoldService *service.SlotHoldService) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, jwtService, redisClient, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, cfg.Booking, doctorProfileRepo, appointmentRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, cfg.Booking, appointmentRepo, doctorProfileRepo, patientProfileRepo, slotHoldService, auditService)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, appointmentRepo, auditService)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, availabilityUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, appointmentHandler, paymentHandler, doctorHandler, patientHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
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

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
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
