package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/archive"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/auth"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/compliance"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/config"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/documents"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/notify"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/records"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/storage"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AWS clients for evidence storage and notification channels
	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}
	store := storage.NewS3Store(s3.NewFromConfig(awsCfg))

	// Shared collaborators
	recorder, err := audit.NewRecorder(db)
	if err != nil {
		logger.Fatal("Failed to initialize audit recorder", zap.Error(err))
	}

	var sms *notify.SMSChannel
	if cfg.AWS.SMSEnabled {
		sms = notify.NewSMSChannel(sns.NewFromConfig(awsCfg))
	}
	email := notify.NewEmailChannel(sesv2.NewFromConfig(awsCfg), cfg.AWS.EmailSender)
	notifier, err := notify.NewService(db, email, sms, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notification service", zap.Error(err))
	}

	archiver := archive.NewS3Archiver(store, cfg.AWS.EvidenceBucket, logger)

	// Feature modules
	documentsRepo, err := documents.NewRepository(db)
	if err != nil {
		logger.Fatal("Failed to initialize documents repository", zap.Error(err))
	}
	documentsService := documents.NewService(documentsRepo, recorder, notifier, store, cfg.AWS.EvidenceBucket)
	documentsHandler := documents.NewHandler(documentsService)

	recordsRepo, err := records.NewRepository(db)
	if err != nil {
		logger.Fatal("Failed to initialize records repository", zap.Error(err))
	}
	recordsService := records.NewService(recordsRepo, recorder, notifier)
	recordsHandler := records.NewHandler(recordsService)

	complianceRepo, err := compliance.NewRepository(db)
	if err != nil {
		logger.Fatal("Failed to initialize compliance repository", zap.Error(err))
	}
	complianceService := compliance.NewService(complianceRepo, recorder, notifier, archiver, logger)
	complianceHandler := compliance.NewHandler(complianceService)

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(cfg.Security.JWTSecret))
	{
		documentsHandler.RegisterRoutes(api)
		recordsHandler.RegisterRoutes(api)
		complianceHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}
