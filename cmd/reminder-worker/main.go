// The reminder worker scans tomorrow's agenda on a fixed interval,
// enqueues one job per scheduled slot, and delivers reminder emails.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/ortocare/clinic-platform/cmd/mainconfig"
	appconfig "github.com/ortocare/clinic-platform/internal/config"
	"github.com/ortocare/clinic-platform/internal/notify"
	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/internal/reminders"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting reminder worker", "env", cfg.Env)

	if !cfg.SyncConfigured() {
		logger.Error("reminder worker needs the realtime backend (SYNC_TABLE and REDIS_ADDR)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsConfig, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	store := realtime.NewDynamoStore(dynamodb.NewFromConfig(awsConfig), cfg.SyncTable, logger)
	notifySvc := notify.NewService(buildSender(cfg, awsConfig, logger), cfg.SendGridFromName, logger)

	var scanner *reminders.Scanner
	var worker *reminders.Worker
	if cfg.UseMemoryQueue {
		queue := reminders.NewMemoryQueue(256)
		scanner = reminders.NewScanner(store, queue, logger)
		worker = reminders.NewWorker(queue, notifySvc, logger)
		logger.Info("using in-memory reminder queue")
	} else {
		if cfg.ReminderQueueURL == "" {
			logger.Error("REMINDER_QUEUE_URL is required unless USE_MEMORY_QUEUE=true")
			os.Exit(1)
		}
		queue := reminders.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.ReminderQueueURL)
		scanner = reminders.NewScanner(store, queue, logger)
		worker = reminders.NewWorker(queue, notifySvc, logger)
	}

	worker.Start(ctx)
	runScans(ctx, scanner, time.Duration(cfg.ReminderLookaheadHours)*time.Hour, logger)
	worker.Wait()
	logger.Info("reminder worker stopped")
}

// runScans enqueues reminders for the date lookahead ahead, rescanning
// hourly and skipping dates already covered. Blocks until ctx is done.
func runScans(ctx context.Context, scanner *reminders.Scanner, lookahead time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastDate string
	scan := func() {
		target := time.Now().UTC().Add(lookahead).Format("2006-01-02")
		if target == lastDate {
			return
		}
		if _, err := scanner.EnqueueForDate(ctx, target); err != nil {
			logger.Error("reminder scan failed", "date", target, "error", err)
			return
		}
		lastDate = target
	}

	scan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}

// buildSender picks the configured email provider, falling back to the
// logging stub when none is set up.
func buildSender(cfg *appconfig.Config, awsConfig aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			logger.Info("sendgrid email sender initialized")
			return sender
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty, using stub sender")
	case "ses":
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsConfig), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			logger.Info("ses email sender initialized")
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
