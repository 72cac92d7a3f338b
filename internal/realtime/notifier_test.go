package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestNotifier(t *testing.T) (*RedisNotifier, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNotifier(client), mr
}

func TestRedisNotifierPublishSubscribe(t *testing.T) {
	notifier, _ := newTestNotifier(t)
	ctx := context.Background()

	signals, release, err := notifier.Subscribe(ctx, CollectionInventory)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer release()

	if err := notifier.Publish(ctx, CollectionInventory); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case payload := <-signals:
		if payload != CollectionInventory {
			t.Errorf("payload = %q, want %q", payload, CollectionInventory)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestRedisNotifierCollectionsAreIsolated(t *testing.T) {
	notifier, _ := newTestNotifier(t)
	ctx := context.Background()

	signals, release, err := notifier.Subscribe(ctx, CollectionPatients)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer release()

	if err := notifier.Publish(ctx, CollectionOrders); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case payload := <-signals:
		t.Fatalf("unexpected signal %q on patients channel", payload)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRedisNotifierReleaseClosesChannel(t *testing.T) {
	notifier, _ := newTestNotifier(t)

	signals, release, err := notifier.Subscribe(context.Background(), CollectionOrders)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	release()

	select {
	case _, ok := <-signals:
		if ok {
			t.Error("expected closed channel after release")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
