package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/realtime"
)

// fakeStore serves canned records per collection.
type fakeStore struct {
	records map[string][]realtime.Record
	listErr error
}

func (f *fakeStore) List(_ context.Context, collection string) ([]realtime.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records[collection], nil
}

func (f *fakeStore) Put(_ context.Context, _ string, rec realtime.Record) (realtime.Record, error) {
	return rec, nil
}

func (f *fakeStore) Patch(_ context.Context, _, _ string, _ realtime.Record) error { return nil }
func (f *fakeStore) Delete(_ context.Context, _, _ string) error                   { return nil }

func scannerStore() *fakeStore {
	return &fakeStore{records: map[string][]realtime.Record{
		realtime.CollectionAppointments: {
			{"id": "apt-1", "patient_id": "pat-1", "date": "2026-09-03", "time": "14:00", "type": "physio", "status": "scheduled"},
			{"id": "apt-2", "patient_id": "pat-2", "date": "2026-09-03", "time": "08:00", "type": "workshop", "status": "scheduled"},
			{"id": "apt-3", "patient_id": "pat-1", "date": "2026-09-04", "time": "10:30", "type": "physio", "status": "scheduled"},
			{"id": "apt-4", "patient_id": "pat-1", "date": "2026-09-03", "time": "16:00", "type": "physio", "status": "cancelled"},
		},
		realtime.CollectionPatients: {
			{"id": "pat-1", "name": "Maria Clara Souza", "email": "maria@example.com"},
			{"id": "pat-2", "name": "João Pedro Almeida", "email": ""},
		},
	}}
}

func TestScannerEnqueuesScheduledSlotsForDate(t *testing.T) {
	queue := NewMemoryQueue(8)
	scanner := NewScanner(scannerStore(), queue, nil)

	n, err := scanner.EnqueueForDate(context.Background(), "2026-09-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// apt-2's patient has no email, apt-3 is another day, apt-4 cancelled.
	if n != 1 {
		t.Fatalf("expected 1 job enqueued, got %d", n)
	}

	msgs, err := queue.Receive(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	var job Job
	if err := json.Unmarshal([]byte(msgs[0].Body), &job); err != nil {
		t.Fatalf("failed to decode job: %v", err)
	}
	if job.AppointmentID != "apt-1" || job.PatientEmail != "maria@example.com" || job.Time != "14:00" {
		t.Errorf("unexpected job: %+v", job)
	}
}

func TestScannerPropagatesListError(t *testing.T) {
	store := scannerStore()
	store.listErr = errors.New("backend down")
	scanner := NewScanner(store, NewMemoryQueue(1), nil)

	if _, err := scanner.EnqueueForDate(context.Background(), "2026-09-03"); err == nil {
		t.Fatal("expected error when store listing fails")
	}
}

// recordingReminderSender collects delivered jobs.
type recordingReminderSender struct {
	mu    sync.Mutex
	sent  []string
	errCh chan struct{}
	fail  bool
}

func (r *recordingReminderSender) SendAppointmentReminder(_ context.Context, appt *appointments.Appointment, _, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("send failed")
	}
	r.sent = append(r.sent, appt.ID)
	if r.errCh != nil {
		r.errCh <- struct{}{}
	}
	return nil
}

func (r *recordingReminderSender) delivered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestWorkerDeliversJobs(t *testing.T) {
	queue := NewMemoryQueue(8)
	sender := &recordingReminderSender{errCh: make(chan struct{}, 8)}

	job := Job{AppointmentID: "apt-1", PatientID: "pat-1", PatientName: "Maria", PatientEmail: "maria@example.com", Date: "2026-09-03", Time: "14:00", Type: "physio"}
	if err := queue.Send(context.Background(), job); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	worker := NewWorker(queue, sender, nil, WithWorkerCount(1))
	worker.Start(ctx)

	select {
	case <-sender.errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	cancel()
	worker.Wait()

	got := sender.delivered()
	if len(got) != 1 || got[0] != "apt-1" {
		t.Errorf("unexpected deliveries: %v", got)
	}
}

func TestWorkerDropsMalformedJob(t *testing.T) {
	queue := NewMemoryQueue(8)
	sender := &recordingReminderSender{}

	worker := NewWorker(queue, sender, nil)
	worker.handle(context.Background(), queueMessage{ID: "m1", Body: "{not json", ReceiptHandle: "r1"})

	if len(sender.delivered()) != 0 {
		t.Error("malformed job must not be delivered")
	}
}

func TestMemoryQueueRoundTrip(t *testing.T) {
	queue := NewMemoryQueue(2)
	if err := queue.Send(context.Background(), Job{AppointmentID: "apt-1"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := queue.Send(context.Background(), Job{AppointmentID: "apt-2"}); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msgs, err := queue.Receive(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	var first, second Job
	if err := json.Unmarshal([]byte(msgs[0].Body), &first); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.Unmarshal([]byte(msgs[1].Body), &second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if first.AppointmentID != "apt-1" || second.AppointmentID != "apt-2" {
		t.Errorf("unexpected jobs: %+v %+v", first, second)
	}
}
