package patients

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage.
type Repository interface {
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error)
	AppendNote(ctx context.Context, id string, req *AddNoteRequest) (*Patient, error)
	SetPendingEval(ctx context.Context, id string, pending bool) error
	List(ctx context.Context) ([]Patient, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps the session's patient collection in memory. It is
// the authoritative store when no realtime backend is configured and is
// replaced wholesale when a backend snapshot arrives.
type InMemoryRepository struct {
	mu       sync.RWMutex
	order    []string
	patients map[string]*Patient
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

// NewSeededRepository creates a repository pre-populated with the given patients.
func NewSeededRepository(seed []Patient) *InMemoryRepository {
	r := NewInMemoryRepository()
	r.ReplaceAll(seed)
	return r
}

// Create registers a new patient.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		BirthDate:  req.BirthDate,
		Condition:  req.Condition,
		Categories: append([]string(nil), req.Categories...),
		Notes:      []ClinicalNote{},
		// New patients always start with an evaluation pending; the
		// finalize flow clears it.
		PendingPhysioEval: true,
		CreatedAt:         time.Now().UTC(),
	}

	r.mu.Lock()
	r.patients[p.ID] = p
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	out := *p
	return &out, nil
}

// GetByID retrieves a patient by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := clonePatient(p)
	return &out, nil
}

// Update mutates the patient's editable fields.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdatePatientRequest) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Condition != nil {
		p.Condition = *req.Condition
	}
	if req.Categories != nil {
		p.Categories = append([]string(nil), (*req.Categories)...)
	}
	out := clonePatient(p)
	return &out, nil
}

// AppendNote adds a clinical note to the patient's history.
func (r *InMemoryRepository) AppendNote(ctx context.Context, id string, req *AddNoteRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	p.Notes = append(p.Notes, ClinicalNote{
		ID:        uuid.NewString(),
		Author:    req.Author,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	})
	out := clonePatient(p)
	return &out, nil
}

// SetPendingEval flips the pending-physio-evaluation flag.
func (r *InMemoryRepository) SetPendingEval(ctx context.Context, id string, pending bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return ErrPatientNotFound
	}
	p.PendingPhysioEval = pending
	return nil
}

// List returns all patients in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Patient, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.patients[id]; ok {
			out = append(out, clonePatient(p))
		}
	}
	return out, nil
}

// Delete removes a patient. No HTTP route is wired to this: the dashboard
// never hard-deletes patients, but the capability exists for the sync layer.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll swaps the whole collection for the given snapshot.
func (r *InMemoryRepository) ReplaceAll(snapshot []Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patients = make(map[string]*Patient, len(snapshot))
	r.order = make([]string, 0, len(snapshot))
	for i := range snapshot {
		p := clonePatient(&snapshot[i])
		r.patients[p.ID] = &p
		r.order = append(r.order, p.ID)
	}
}

func clonePatient(p *Patient) Patient {
	out := *p
	out.Categories = append([]string(nil), p.Categories...)
	out.Notes = append([]ClinicalNote(nil), p.Notes...)
	return out
}
