package state

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ortocare/clinic-platform/internal/observability/metrics"
	"github.com/ortocare/clinic-platform/internal/realtime"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	m := metrics.NewSyncMetrics(prometheus.NewRegistry())
	return NewContainer(logging.Default(), m)
}

func TestContainerSeeded(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	pts, _ := c.Patients.List(ctx)
	if len(pts) == 0 {
		t.Error("expected seeded patients")
	}
	orders, _ := c.Orders.List(ctx)
	if len(orders) == 0 {
		t.Error("expected seeded orders")
	}
	items, _ := c.Inventory.List(ctx)
	if len(items) == 0 {
		t.Error("expected seeded inventory")
	}
	agenda, _ := c.Appointments.List(ctx)
	if len(agenda) == 0 {
		t.Error("expected seeded appointments")
	}
}

func TestApplySnapshotReplacesCollection(t *testing.T) {
	c := newTestContainer(t)

	c.ApplySnapshot(realtime.CollectionInventory, []realtime.Record{
		{"id": "inv-9", "name": "Gesso sintético", "category": "other", "quantity": float64(7), "min_quantity": float64(2)},
	})

	items, _ := c.Inventory.List(context.Background())
	if len(items) != 1 || items[0].ID != "inv-9" {
		t.Fatalf("snapshot must replace wholesale: %+v", items)
	}
}

func TestApplySnapshotIgnoresEmpty(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	before, _ := c.Patients.List(ctx)
	c.ApplySnapshot(realtime.CollectionPatients, nil)
	after, _ := c.Patients.List(ctx)

	if len(after) != len(before) {
		t.Fatalf("empty snapshot must keep prior state: before=%d after=%d", len(before), len(after))
	}
}

func TestApplySnapshotDropsInvalidOrders(t *testing.T) {
	c := newTestContainer(t)

	c.ApplySnapshot(realtime.CollectionOrders, []realtime.Record{
		{"id": "ord-9", "product": "Palmilha", "status": "molding"},
		{"id": "ord-10", "product": "Colete", "status": "shipped"},
		{"product": "sem id", "status": "ready"},
	})

	orders, _ := c.Orders.List(context.Background())
	if len(orders) != 1 || orders[0].ID != "ord-9" {
		t.Fatalf("invalid records must be dropped at the boundary: %+v", orders)
	}
}

func TestApplySnapshotDropsBadAppointmentTimes(t *testing.T) {
	c := newTestContainer(t)

	c.ApplySnapshot(realtime.CollectionAppointments, []realtime.Record{
		{"id": "apt-9", "date": "2026-09-10", "time": "08:30"},
		{"id": "apt-10", "date": "2026-09-10", "time": "sometime"},
	})

	agenda, _ := c.Appointments.List(context.Background())
	if len(agenda) != 1 || agenda[0].ID != "apt-9" {
		t.Fatalf("unparseable times must be dropped: %+v", agenda)
	}
}

func TestAttachBridgeUnconfiguredIsNoOp(t *testing.T) {
	c := newTestContainer(t)
	bridge := realtime.NewBridge(nil, nil, logging.Default(), nil)

	if err := c.AttachBridge(context.Background(), bridge); err != nil {
		t.Fatalf("attach against unconfigured bridge: %v", err)
	}
	c.DetachBridge()

	// Seeded state must be intact: no snapshot was delivered.
	pts, _ := c.Patients.List(context.Background())
	if len(pts) == 0 {
		t.Fatal("seeded patients lost")
	}
}
