package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for inventory storage.
type Repository interface {
	Create(ctx context.Context, req *UpsertItemRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, id string, req *UpsertItemRequest) (*Item, error)
	AdjustQuantity(ctx context.Context, id string, delta int) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps the session's inventory in memory, replaced
// wholesale when a backend snapshot arrives.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*Item
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Item)}
}

// NewSeededRepository creates a repository pre-populated with the given items.
func NewSeededRepository(seed []Item) *InMemoryRepository {
	r := NewInMemoryRepository()
	r.ReplaceAll(seed)
	return r
}

// Create registers a new supply line.
func (r *InMemoryRepository) Create(ctx context.Context, req *UpsertItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		MinQuantity: req.MinQuantity,
	}

	r.mu.Lock()
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	r.mu.Unlock()

	out := *item
	return &out, nil
}

// GetByID retrieves an item by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	out := *item
	return &out, nil
}

// Update replaces an item's editable fields.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpsertItemRequest) (*Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	item.Name = req.Name
	item.Category = req.Category
	item.Quantity = req.Quantity
	item.Unit = req.Unit
	item.MinQuantity = req.MinQuantity
	out := *item
	return &out, nil
}

// AdjustQuantity changes the on-hand quantity by a delta, clamped at zero.
func (r *InMemoryRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	item.Quantity += delta
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	out := *item
	return &out, nil
}

// List returns all items in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

// Delete removes an item.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll swaps the whole collection for the given snapshot.
func (r *InMemoryRepository) ReplaceAll(snapshot []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]*Item, len(snapshot))
	r.order = make([]string, 0, len(snapshot))
	for i := range snapshot {
		item := snapshot[i]
		r.items[item.ID] = &item
		r.order = append(r.order, item.ID)
	}
}
