// Package reminders schedules and delivers appointment reminder emails.
// A scanner finds tomorrow's slots and enqueues one job per patient; a
// worker drains the queue and hands each job to the notifier.
package reminders

import "context"

// queueClient abstracts the reminder job queue so the worker can run
// against SQS in deploys and the in-memory queue in tests. Enqueueing
// is typed on Job; receiving stays wire-level because payloads from a
// real queue may be malformed and the worker decides their fate.
type queueClient interface {
	Send(ctx context.Context, job Job) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Job is one reminder to deliver, serialized as JSON on the queue.
type Job struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	PatientEmail  string `json:"patient_email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Type          string `json:"type"`
}
