package appointments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	SetStatus(ctx context.Context, id string, status string) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListByDate(ctx context.Context, date string) ([]Appointment, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps the session's agenda in memory, replaced
// wholesale when a backend snapshot arrives.
type InMemoryRepository struct {
	mu           sync.RWMutex
	order        []string
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[string]*Appointment)}
}

// NewSeededRepository creates a repository pre-populated with the given slots.
func NewSeededRepository(seed []Appointment) *InMemoryRepository {
	r := NewInMemoryRepository()
	r.ReplaceAll(seed)
	return r
}

// Create books a slot. Double-booking the same date and time is allowed.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:          uuid.NewString(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Status:      "scheduled",
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.appointments[a.ID] = a
	r.order = append(r.order, a.ID)
	r.mu.Unlock()

	out := *a
	return &out, nil
}

// GetByID retrieves an appointment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

// SetStatus updates the slot's status label.
func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = status
	out := *a
	return &out, nil
}

// List returns all appointments in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.order))
	for _, id := range r.order {
		if a, ok := r.appointments[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ListByDate returns the agenda for a single day sorted by time of day.
func (r *InMemoryRepository) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	r.mu.RLock()
	out := make([]Appointment, 0)
	for _, id := range r.order {
		if a, ok := r.appointments[id]; ok && a.Date == date {
			out = append(out, *a)
		}
	}
	r.mu.RUnlock()

	SortByTime(out)
	return out, nil
}

// Delete removes a slot.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll swaps the whole collection for the given snapshot.
func (r *InMemoryRepository) ReplaceAll(snapshot []Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appointments = make(map[string]*Appointment, len(snapshot))
	r.order = make([]string, 0, len(snapshot))
	for i := range snapshot {
		a := snapshot[i]
		r.appointments[a.ID] = &a
		r.order = append(r.order, a.ID)
	}
}
