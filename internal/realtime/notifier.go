package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const changeChannelPrefix = "sync:changed:"

// ChangeNotifier announces and observes collection changes. The payload
// carries no data: subscribers re-read the whole collection on every signal.
type ChangeNotifier interface {
	Publish(ctx context.Context, collection string) error
	Subscribe(ctx context.Context, collection string) (<-chan string, func(), error)
}

// RedisNotifier distributes change signals over Redis pub/sub, one channel
// per collection.
type RedisNotifier struct {
	client *redis.Client
}

var _ ChangeNotifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a notifier on the given Redis client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	if client == nil {
		panic("realtime: redis client cannot be nil")
	}
	return &RedisNotifier{client: client}
}

// Publish signals that the collection changed.
func (n *RedisNotifier) Publish(ctx context.Context, collection string) error {
	if err := n.client.Publish(ctx, changeChannel(collection), collection).Err(); err != nil {
		return fmt.Errorf("realtime: publish change for %s: %w", collection, err)
	}
	return nil
}

// Subscribe returns a channel of change signals for the collection and a
// release function. The channel closes when the subscription ends.
func (n *RedisNotifier) Subscribe(ctx context.Context, collection string) (<-chan string, func(), error) {
	pubsub := n.client.Subscribe(ctx, changeChannel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("realtime: subscribe to %s: %w", collection, err)
	}

	out := make(chan string, 8)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	release := func() { _ = pubsub.Close() }
	return out, release, nil
}

func changeChannel(collection string) string {
	return changeChannelPrefix + collection
}
