package reminders

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// ReminderSender delivers one reminder. notify.Service satisfies it.
type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, appt *appointments.Appointment, toEmail, toName string) error
}

// Worker drains the reminder queue and delivers each job.
type Worker struct {
	queue   queueClient
	sender  ReminderSender
	logger  *logging.Logger
	workers int

	wg sync.WaitGroup
}

// WorkerOption customizes the worker.
type WorkerOption func(*Worker)

// WithWorkerCount sets the number of concurrent pollers.
func WithWorkerCount(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.workers = n
		}
	}
}

// NewWorker creates a reminder worker.
func NewWorker(queue queueClient, sender ReminderSender, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if sender == nil {
		panic("reminders: sender cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	w := &Worker{
		queue:   queue,
		sender:  sender,
		logger:  logger,
		workers: 2,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the polling goroutines. They stop when ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.poll(ctx)
		}()
	}
}

// Wait blocks until all pollers have stopped.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) poll(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, 10, 20)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("failed to receive reminder jobs", "error", err)
			continue
		}

		for _, msg := range messages {
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg queueMessage) {
	var job Job
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		w.logger.Error("dropping malformed reminder job", "error", err, "message_id", msg.ID)
		// Malformed payloads never become valid, delete instead of redelivering.
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			w.logger.Warn("failed to delete malformed job", "error", err)
		}
		return
	}

	appt := &appointments.Appointment{
		ID:          job.AppointmentID,
		PatientID:   job.PatientID,
		PatientName: job.PatientName,
		Date:        job.Date,
		Time:        job.Time,
		Type:        appointments.Type(job.Type),
	}

	if err := w.sender.SendAppointmentReminder(ctx, appt, job.PatientEmail, job.PatientName); err != nil {
		// Leave the message for redelivery.
		w.logger.Error("failed to send reminder", "error", err, "appointment_id", job.AppointmentID)
		return
	}

	if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		w.logger.Warn("failed to delete delivered job", "error", err, "appointment_id", job.AppointmentID)
	}
}
