package realtime

import (
	"encoding/json"
	"fmt"
)

// Synchronized collection names. These mirror the remote document store's
// collection layout.
const (
	CollectionPatients     = "patients"
	CollectionOrders       = "orders"
	CollectionInventory    = "inventory"
	CollectionAppointments = "appointments"
)

// Collections lists every synchronized collection.
var Collections = []string{
	CollectionPatients,
	CollectionOrders,
	CollectionInventory,
	CollectionAppointments,
}

// KnownCollection reports whether name is part of the synchronized set.
func KnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// Record is a raw schemaless document as stored in the remote collection.
// The store manages the "id" and "updatedAt" keys.
type Record map[string]any

// ID returns the document id, if present.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// UpdatedAt returns the server-assigned update stamp, if present.
func (r Record) UpdatedAt() string {
	ts, _ := r["updatedAt"].(string)
	return ts
}

// ToRecord converts a typed value into a raw document via its JSON form.
func ToRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("realtime: encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("realtime: decode record: %w", err)
	}
	return rec, nil
}

// FromRecord decodes a raw document into the typed value pointed to by dst.
func FromRecord(rec Record, dst any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("realtime: encode record: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("realtime: decode record: %w", err)
	}
	return nil
}
