// Package state owns the session's authoritative in-memory domain data.
// It seeds from static datasets and upgrades in place when the realtime
// bridge delivers a non-empty collection snapshot.
package state

import (
	"context"

	"github.com/ortocare/clinic-platform/internal/appointments"
	"github.com/ortocare/clinic-platform/internal/inventory"
	"github.com/ortocare/clinic-platform/internal/observability/metrics"
	"github.com/ortocare/clinic-platform/internal/patients"
	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/internal/seed"
	"github.com/ortocare/clinic-platform/internal/workshop"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

// Container holds the session's collections. It is the sole writer of
// the repositories it owns; snapshot application replaces a collection
// wholesale.
type Container struct {
	Patients     *patients.InMemoryRepository
	Orders       *workshop.InMemoryRepository
	Inventory    *inventory.InMemoryRepository
	Appointments *appointments.InMemoryRepository

	logger  *logging.Logger
	metrics *metrics.SyncMetrics

	unsubs []realtime.Unsubscribe
}

// NewContainer creates a container seeded with the demo datasets.
func NewContainer(logger *logging.Logger, m *metrics.SyncMetrics) *Container {
	if logger == nil {
		logger = logging.Default()
	}
	return &Container{
		Patients:     patients.NewSeededRepository(seed.Patients()),
		Orders:       workshop.NewSeededRepository(seed.WorkOrders()),
		Inventory:    inventory.NewSeededRepository(seed.InventoryItems()),
		Appointments: appointments.NewSeededRepository(seed.Appointments()),
		logger:       logger,
		metrics:      m,
	}
}

// ApplySnapshot replaces one collection with the decoded snapshot.
//
// Empty snapshots are deliberately ignored to avoid wiping local state
// during a backend's initial load. This can mask a remote collection
// that was legitimately emptied; the skip is therefore logged and
// counted rather than silent.
func (c *Container) ApplySnapshot(collection string, records []realtime.Record) {
	if len(records) == 0 {
		c.logger.Warn("ignoring empty snapshot", "collection", collection)
		c.metrics.ObserveEmptyIgnored(collection)
		return
	}

	switch collection {
	case realtime.CollectionPatients:
		c.Patients.ReplaceAll(decodeRecords[patients.Patient](c, collection, records, validatePatient))
	case realtime.CollectionOrders:
		c.Orders.ReplaceAll(decodeRecords[workshop.WorkOrder](c, collection, records, validateOrder))
	case realtime.CollectionInventory:
		c.Inventory.ReplaceAll(decodeRecords[inventory.Item](c, collection, records, validateItem))
	case realtime.CollectionAppointments:
		c.Appointments.ReplaceAll(decodeRecords[appointments.Appointment](c, collection, records, validateAppointment))
	default:
		c.logger.Warn("snapshot for unknown collection dropped", "collection", collection)
	}
}

// AttachBridge subscribes the container to every synchronized
// collection. Safe to call against an unconfigured bridge.
func (c *Container) AttachBridge(ctx context.Context, bridge *realtime.Bridge) error {
	for _, collection := range realtime.Collections {
		collection := collection
		unsub, err := bridge.Subscribe(ctx, collection, func(records []realtime.Record) {
			c.ApplySnapshot(collection, records)
		})
		if err != nil {
			c.DetachBridge()
			return err
		}
		c.unsubs = append(c.unsubs, unsub)
	}
	return nil
}

// DetachBridge releases every active subscription.
func (c *Container) DetachBridge() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

// decodeRecords converts raw documents into typed values, dropping the
// ones that fail to decode or validate. Validation happens here, at the
// bridge boundary, so view logic only ever sees well-formed entities.
func decodeRecords[T any](c *Container, collection string, records []realtime.Record, valid func(*T) bool) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := realtime.FromRecord(rec, &v); err != nil {
			c.logger.Warn("dropping undecodable record",
				"collection", collection,
				"record_id", rec.ID(),
				"error", err,
			)
			continue
		}
		if !valid(&v) {
			c.logger.Warn("dropping invalid record",
				"collection", collection,
				"record_id", rec.ID(),
			)
			continue
		}
		out = append(out, v)
	}
	return out
}

func validatePatient(p *patients.Patient) bool {
	return p.ID != "" && p.Name != ""
}

func validateOrder(o *workshop.WorkOrder) bool {
	return o.ID != "" && o.Status.Valid()
}

func validateItem(i *inventory.Item) bool {
	return i.ID != "" && i.Name != "" && i.Quantity >= 0
}

func validateAppointment(a *appointments.Appointment) bool {
	if a.ID == "" || a.Date == "" {
		return false
	}
	_, err := appointments.ParseTimeOfDay(a.Time)
	return err == nil
}
