package workshop

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for work order storage.
type Repository interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*WorkOrder, error)
	GetByID(ctx context.Context, id string) (*WorkOrder, error)
	SetStatus(ctx context.Context, id string, status Status) (*WorkOrder, error)
	List(ctx context.Context) ([]WorkOrder, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps the session's work orders in memory, replaced
// wholesale when a backend snapshot arrives.
type InMemoryRepository struct {
	mu     sync.RWMutex
	order  []string
	orders map[string]*WorkOrder
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*WorkOrder)}
}

// NewSeededRepository creates a repository pre-populated with the given orders.
func NewSeededRepository(seed []WorkOrder) *InMemoryRepository {
	r := NewInMemoryRepository()
	r.ReplaceAll(seed)
	return r
}

// Create opens a new work order.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateOrderRequest) (*WorkOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o := &WorkOrder{
		ID:          uuid.NewString(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Product:     req.Product,
		Status:      req.Status,
		Deadline:    req.Deadline,
		PriceCents:  req.PriceCents,
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.orders[o.ID] = o
	r.order = append(r.order, o.ID)
	r.mu.Unlock()

	out := *o
	return &out, nil
}

// GetByID retrieves a work order by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := *o
	return &out, nil
}

// SetStatus moves an order to another pipeline status.
func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) (*WorkOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o.Status = status
	out := *o
	return &out, nil
}

// List returns all work orders in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]WorkOrder, 0, len(r.order))
	for _, id := range r.order {
		if o, ok := r.orders[id]; ok {
			out = append(out, *o)
		}
	}
	return out, nil
}

// Delete removes a work order.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(r.orders, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll swaps the whole collection for the given snapshot.
func (r *InMemoryRepository) ReplaceAll(snapshot []WorkOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = make(map[string]*WorkOrder, len(snapshot))
	r.order = make([]string, 0, len(snapshot))
	for i := range snapshot {
		o := snapshot[i]
		r.orders[o.ID] = &o
		r.order = append(r.order, o.ID)
	}
}
