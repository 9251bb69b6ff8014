package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
)

type redisBus struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log: log.With("service", "RedisBus"),
		rdb: rdb,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.Message) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis bus not initialized")
	}
	if msg.Topic == "" {
		return fmt.Errorf("missing topic")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, msg.Topic, raw).Err()
}

func (b *redisBus) Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error) {
	if b == nil || b.rdb == nil {
		return nil, fmt.Errorf("redis bus not initialized")
	}
	if topic == "" {
		return nil, fmt.Errorf("missing topic")
	}
	if h == nil {
		return nil, fmt.Errorf("handler required")
	}

	pubsub := b.rdb.Subscribe(ctx, topic)

	// ensures subscription actually started
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	sub := &redisSubscription{
		log:    b.log.With("topic", topic),
		topic:  topic,
		pubsub: pubsub,
	}

	go func() {
		ch := pubsub.Channel()
		for m := range ch {
			if m == nil {
				return
			}
			var msg realtime.Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				sub.log.Warn("bad bus payload", "error", err)
				continue
			}
			sub.deliver(h, msg)
		}
	}()

	return sub, nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

type redisSubscription struct {
	log    *logger.Logger
	topic  string
	pubsub *goredis.PubSub

	mu     sync.Mutex
	closed bool
}

func (s *redisSubscription) Topic() string { return s.topic }

// deliver holds the mutex across the handler call so Unsubscribe waits
// for an in-flight handler and no handler runs after teardown.
func (s *redisSubscription) deliver(h Handler, msg realtime.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	h(msg)
}

func (s *redisSubscription) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.pubsub.Unsubscribe(ctx, s.topic); err != nil {
		_ = s.pubsub.Close()
		return fmt.Errorf("redis unsubscribe: %w", err)
	}
	return s.pubsub.Close()
}
