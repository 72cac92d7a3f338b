package reminders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Scanner reads the synced agenda and patient roster from the backend
// document store and enqueues one reminder job per scheduled slot on
// the target date. It runs against the store directly so a detached
// worker process needs no API session.
type Scanner struct {
	store  realtime.DocumentStore
	queue  queueClient
	logger *logging.Logger
}

// NewScanner creates a reminder scanner.
func NewScanner(store realtime.DocumentStore, queue queueClient, logger *logging.Logger) *Scanner {
	if store == nil {
		panic("reminders: document store cannot be nil")
	}
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scanner{store: store, queue: queue, logger: logger}
}

// EnqueueForDate scans appointments on the given "2006-01-02" date and
// enqueues a job for every scheduled slot whose patient has an email.
// It returns the number of jobs enqueued.
func (s *Scanner) EnqueueForDate(ctx context.Context, date string) (int, error) {
	apptRecords, err := s.store.List(ctx, realtime.CollectionAppointments)
	if err != nil {
		return 0, fmt.Errorf("reminders: list appointments: %w", err)
	}
	patientRecords, err := s.store.List(ctx, realtime.CollectionPatients)
	if err != nil {
		return 0, fmt.Errorf("reminders: list patients: %w", err)
	}

	roster := make(map[string]patients.Patient, len(patientRecords))
	for _, rec := range patientRecords {
		var p patients.Patient
		if err := decodeRecord(rec, &p); err != nil || p.ID == "" {
			continue
		}
		roster[p.ID] = p
	}

	enqueued := 0
	for _, rec := range apptRecords {
		var appt appointments.Appointment
		if err := decodeRecord(rec, &appt); err != nil {
			s.logger.Warn("skipping undecodable appointment record", "error", err)
			continue
		}
		if appt.Date != date || appt.Status != "scheduled" {
			continue
		}

		p, ok := roster[appt.PatientID]
		if !ok || p.Email == "" {
			s.logger.Warn("skipping reminder, patient has no email",
				"appointment_id", appt.ID,
				"patient_id", appt.PatientID,
			)
			continue
		}

		job := Job{
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			PatientName:   p.Name,
			PatientEmail:  p.Email,
			Date:          appt.Date,
			Time:          appt.Time,
			Type:          string(appt.Type),
		}
		if err := s.queue.Send(ctx, job); err != nil {
			return enqueued, err
		}
		enqueued++
	}

	s.logger.Info("reminder scan complete", "date", date, "enqueued", enqueued)
	return enqueued, nil
}

func decodeRecord(rec realtime.Record, out any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
