package realtime

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ortocare/clinic-platform/internal/observability/metrics"
	"github.com/ortocare/clinic-platform/pkg/logging"
)

var tracer trace.Tracer = otel.Tracer("ortocare.internal.realtime")

// SnapshotFunc receives the FULL current record set of a collection, ordered
// by updatedAt descending. It is never handed a diff.
type SnapshotFunc func(records []Record)

// Unsubscribe releases a subscription. It is always safe to call, including
// for subscriptions created while no backend was configured.
type Unsubscribe func()

// Bridge connects local session state to the remote document collections.
// With no backend configured it degrades gracefully: Subscribe becomes a
// no-op and writes fail with ErrBackendUnavailable.
type Bridge struct {
	store    DocumentStore
	notifier ChangeNotifier
	logger   *logging.Logger
	metrics  *metrics.SyncMetrics
}

// NewBridge creates a sync bridge. A nil store or notifier yields an
// unconfigured bridge, which is a legal, fully usable state.
func NewBridge(store DocumentStore, notifier ChangeNotifier, logger *logging.Logger, m *metrics.SyncMetrics) *Bridge {
	if logger == nil {
		logger = logging.Default()
	}
	return &Bridge{store: store, notifier: notifier, logger: logger, metrics: m}
}

// Configured reports whether a remote backend is wired up.
func (b *Bridge) Configured() bool {
	return b.store != nil && b.notifier != nil
}

// Subscribe registers fn against a named collection. fn receives one initial
// snapshot and then the full record set after every remote change. Without a
// configured backend this is a safe no-op that still returns a valid
// Unsubscribe and never invokes fn.
//
// Mid-stream failures are logged and the stream stops emitting; there is no
// automatic reconnect.
func (b *Bridge) Subscribe(ctx context.Context, collection string, fn SnapshotFunc) (Unsubscribe, error) {
	if !KnownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	if !b.Configured() {
		return func() {}, nil
	}

	// The subscription outlives the registering call.
	subCtx, cancel := context.WithCancel(context.Background())

	signals, release, err := b.notifier.Subscribe(subCtx, collection)
	if err != nil {
		cancel()
		return nil, err
	}

	records, err := b.loadSnapshot(subCtx, collection)
	if err != nil {
		release()
		cancel()
		return nil, err
	}
	fn(records)

	go func() {
		defer release()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					b.logger.Warn("change stream closed, snapshots stop", "collection", collection)
					return
				}
				records, err := b.loadSnapshot(subCtx, collection)
				if err != nil {
					b.logger.Error("snapshot load failed, snapshots stop",
						"collection", collection,
						"error", err,
					)
					return
				}
				fn(records)
			}
		}
	}()

	return Unsubscribe(cancel), nil
}

func (b *Bridge) loadSnapshot(ctx context.Context, collection string) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "realtime.snapshot")
	defer span.End()

	records, err := b.store.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("collection", collection),
		attribute.Int("records", len(records)),
	)
	b.metrics.ObserveSnapshot(collection, len(records))
	return records, nil
}

// Create inserts a document and signals the change. The store assigns the id
// and the updatedAt stamp.
func (b *Bridge) Create(ctx context.Context, collection string, rec Record) (Record, error) {
	if !KnownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	if !b.Configured() {
		return nil, ErrBackendUnavailable
	}

	stored, err := b.store.Put(ctx, collection, rec)
	if err != nil {
		b.metrics.ObserveWrite(collection, "create", "error")
		return nil, errors.Join(ErrWriteFailed, err)
	}
	b.metrics.ObserveWrite(collection, "create", "ok")
	b.announce(ctx, collection)
	return stored, nil
}

// Update applies a partial document update and signals the change.
func (b *Bridge) Update(ctx context.Context, collection, id string, partial Record) error {
	if !KnownCollection(collection) {
		return ErrUnknownCollection
	}
	if !b.Configured() {
		return ErrBackendUnavailable
	}

	if err := b.store.Patch(ctx, collection, id, partial); err != nil {
		b.metrics.ObserveWrite(collection, "update", "error")
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return errors.Join(ErrWriteFailed, err)
	}
	b.metrics.ObserveWrite(collection, "update", "ok")
	b.announce(ctx, collection)
	return nil
}

// Remove deletes a document and signals the change.
func (b *Bridge) Remove(ctx context.Context, collection, id string) error {
	if !KnownCollection(collection) {
		return ErrUnknownCollection
	}
	if !b.Configured() {
		return ErrBackendUnavailable
	}

	if err := b.store.Delete(ctx, collection, id); err != nil {
		b.metrics.ObserveWrite(collection, "remove", "error")
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return errors.Join(ErrWriteFailed, err)
	}
	b.metrics.ObserveWrite(collection, "remove", "ok")
	b.announce(ctx, collection)
	return nil
}

func (b *Bridge) announce(ctx context.Context, collection string) {
	if err := b.notifier.Publish(ctx, collection); err != nil {
		// The write itself succeeded; subscribers just miss one signal.
		b.logger.Warn("change signal publish failed", "collection", collection, "error", err)
	}
}
