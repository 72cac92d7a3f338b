// The reminder lambda delivers reminder emails from the SQS queue in
// deployments that run the delivery side serverless. The scanning side
// stays in the reminder worker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/ortocare/clinic-platform/cmd/mainconfig"
	"github.com/ortocare/clinic-platform/internal/appointments"
	appconfig "github.com/ortocare/clinic-platform/internal/config"
	"github.com/ortocare/clinic-platform/internal/notify"
	"github.com/ortocare/clinic-platform/internal/reminders"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	awsConfig, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	var sender notify.EmailSender
	if cfg.EmailProvider == "sendgrid" && cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	} else {
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsConfig), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	}
	svc := notify.NewService(sender, cfg.SendGridFromName, logger)

	lambda.Start(func(ctx context.Context, evt events.SQSEvent) error {
		return handle(ctx, svc, logger, evt)
	})
}

// handle delivers every record in the batch. A failed send fails the
// batch so SQS redelivers it.
func handle(ctx context.Context, svc *notify.Service, logger *logging.Logger, evt events.SQSEvent) error {
	for _, record := range evt.Records {
		var job reminders.Job
		if err := json.Unmarshal([]byte(record.Body), &job); err != nil {
			logger.Error("dropping malformed reminder job", "error", err, "message_id", record.MessageId)
			continue
		}

		appt := &appointments.Appointment{
			ID:          job.AppointmentID,
			PatientID:   job.PatientID,
			PatientName: job.PatientName,
			Date:        job.Date,
			Time:        job.Time,
			Type:        appointments.Type(job.Type),
		}
		if err := svc.SendAppointmentReminder(ctx, appt, job.PatientEmail, job.PatientName); err != nil {
			return fmt.Errorf("reminder %s: %w", job.AppointmentID, err)
		}
	}
	return nil
}
