package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telehealth-backend/config"
	deliveryHttp "telehealth-backend/internal/delivery/http"
	"telehealth-backend/internal/delivery/http/handler"
	"telehealth-backend/internal/delivery/http/middleware"
	"telehealth-backend/internal/infrastructure/cache"
	"telehealth-backend/internal/infrastructure/database"
	"telehealth-backend/internal/infrastructure/notification"
	"telehealth-backend/internal/infrastructure/payment"
	"telehealth-backend/internal/infrastructure/video"
	"telehealth-backend/internal/repository"
	"telehealth-backend/internal/service"
	"telehealth-backend/internal/usecase"
	"telehealth-backend/pkg/jwt"
	"telehealth-backend/pkg/metrics"
	"telehealth-backend/pkg/validator"

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

	videoRoomService  *service.VideoRoomService
	assignmentUsecase usecase.AssignmentUsecase
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
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() {
	cfg := app.Config
	db := app.DB

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	bookingRepo := repository.NewBookingRepository()
	doctorRepo := repository.NewDoctorRepository()
	userRepo := repository.NewUserRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize external gateways
	paymentGateway := payment.NewRazorpayGateway(cfg.Razorpay, log)
	videoClient := video.NewClient(cfg.Video, log)
	notificationSender := notification.NewTwilioSender(cfg.Twilio, log)

	// Initialize services
	videoRoomService := service.NewVideoRoomService(db, videoClient, doctorRepo, log)
	auditService := service.NewAuditService(log, auditLogRepo)
	app.videoRoomService = videoRoomService

	// Initialize metrics
	recorder := metrics.NewRecorder("telehealth")

	// Initialize usecases
	bookingUsecase := usecase.NewBookingUsecase(db, log, bookingRepo, paymentGateway, auditService, recorder)
	assignmentUsecase := usecase.NewAssignmentUsecase(db, log, bookingRepo, doctorRepo, userRepo, videoRoomService, notificationSender, auditService, recorder, cfg.Twilio.Timeout)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, videoRoomService, auditService, recorder)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	app.assignmentUsecase = assignmentUsecase

	// Initialize handlers
	bookingHandler := handler.NewBookingHandler(bookingUsecase, assignmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(bookingHandler, doctorHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
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

	// Drain in-flight notification sends before dropping connections
	if app.assignmentUsecase != nil {
		app.assignmentUsecase.Wait()
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Stop background services
	if app.videoRoomService != nil {
		app.videoRoomService.Stop()
	}

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
