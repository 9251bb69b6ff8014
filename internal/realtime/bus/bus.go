package bus

import (
	"context"

	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
)

// Handler receives messages for one subscribed topic, one at a time.
type Handler func(m realtime.Message)

// Subscription is a live topic subscription. Unsubscribe blocks until the
// transport acknowledges teardown; after it returns no further handler
// invocations occur for this subscription.
type Subscription interface {
	Topic() string
	Unsubscribe(ctx context.Context) error
}

// Bus is an at-least-once pub/sub transport keyed by topic string.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error)
	Close() error
}
