package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/compliance"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/config"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/notify"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// ReviewScanner walks the legal register on a schedule and reminds each
// obligation owner when a review is due soon or overdue.
type ReviewScanner struct {
	repo     compliance.Repository
	notifier *notify.Service
	logger   *zap.Logger
}

// NewReviewScanner creates a review scanner
func NewReviewScanner(repo compliance.Repository, notifier *notify.Service, logger *zap.Logger) *ReviewScanner {
	return &ReviewScanner{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Scan classifies every obligation and sends one reminder per obligation
// that is due within 30 days or already overdue. A failed reminder is
// logged and does not stop the sweep.
func (s *ReviewScanner) Scan(ctx context.Context) {
	obligations, err := s.repo.List(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to list obligations", zap.Error(err))
		return
	}

	today := time.Now()
	var due, overdue int
	for _, ob := range obligations {
		urgency := workflow.ClassifyUrgency(ob.NextReviewDate, today)

		var templateKey string
		switch urgency.Tier {
		case workflow.TierOverdue:
			templateKey = "review_overdue"
			overdue++
		case workflow.TierDueSoon:
			templateKey = "review_due"
			due++
		default:
			continue
		}

		if err := s.notifier.Notify(ctx, ob.OwnerID.String(), templateKey, ob.ID); err != nil {
			s.logger.Warn("Failed to send review reminder",
				zap.String("obligation_id", ob.ID.String()),
				zap.String("template", templateKey),
				zap.Error(err))
		}
	}

	s.logger.Info("Review scan completed",
		zap.Int("scanned", len(obligations)),
		zap.Int("due_soon", due),
		zap.Int("overdue", overdue))
}

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

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

	// AWS clients for the notification channels
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

	var sms *notify.SMSChannel
	if cfg.AWS.SMSEnabled {
		sms = notify.NewSMSChannel(sns.NewFromConfig(awsCfg))
	}
	email := notify.NewEmailChannel(sesv2.NewFromConfig(awsCfg), cfg.AWS.EmailSender)
	notifier, err := notify.NewService(db, email, sms, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notification service", zap.Error(err))
	}

	repo, err := compliance.NewRepository(db)
	if err != nil {
		logger.Fatal("Failed to initialize compliance repository", zap.Error(err))
	}

	scanner := NewReviewScanner(repo, notifier, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sweep once at startup, then every morning at 06:00
	scanner.Scan(ctx)

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc("0 0 6 * * *", func() { scanner.Scan(ctx) }); err != nil {
		logger.Fatal("Failed to schedule review scan", zap.Error(err))
	}
	c.Start()

	logger.Info("Review scanner started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	cancel()
	<-c.Stop().Done()
	logger.Info("Review scanner stopped")
}
