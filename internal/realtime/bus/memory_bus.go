package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
)

// memoryBus is an in-process Bus for tests and single-node deployments.
// Delivery is synchronous: Publish returns after every current
// subscriber's handler has run.
type memoryBus struct {
	log *logger.Logger

	mu     sync.RWMutex
	subs   map[string][]*memorySubscription
	closed bool
}

func NewMemoryBus(log *logger.Logger) Bus {
	return &memoryBus{
		log:  log.With("service", "MemoryBus"),
		subs: map[string][]*memorySubscription{},
	}
}

func (b *memoryBus) Publish(ctx context.Context, msg realtime.Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("missing topic")
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("bus closed")
	}
	targets := make([]*memorySubscription, len(b.subs[msg.Topic]))
	copy(targets, b.subs[msg.Topic])
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.deliver(msg)
	}
	return nil
}

func (b *memoryBus) Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error) {
	if topic == "" {
		return nil, fmt.Errorf("missing topic")
	}
	if h == nil {
		return nil, fmt.Errorf("handler required")
	}
	sub := &memorySubscription{bus: b, topic: topic, handler: h}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("bus closed")
	}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub, nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[string][]*memorySubscription{}
	return nil
}

func (b *memoryBus) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.topic]
	for i, s := range list {
		if s == sub {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

type memorySubscription struct {
	bus     *memoryBus
	topic   string
	handler Handler

	mu     sync.Mutex
	closed bool
}

func (s *memorySubscription) Topic() string { return s.topic }

func (s *memorySubscription) deliver(msg realtime.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.handler(msg)
}

func (s *memorySubscription) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.bus.remove(s)
	return nil
}
