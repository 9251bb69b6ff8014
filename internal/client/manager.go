package client

import (
	"context"
	"errors"
	"sync"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime/bus"
)

// TopicSpec names one topic the client should be listening on, together
// with the event family that validates its payloads.
type TopicSpec struct {
	Topic  string
	Family events.Family
}

// Manager reconciles the set of live subscriptions against the topics
// the UI currently needs and routes validated events into the store.
type Manager struct {
	mu    sync.Mutex
	bus   bus.Bus
	store *Store
	log   *logger.Logger
	subs  map[string]managedSub
}

type managedSub struct {
	sub    bus.Subscription
	family events.Family
}

func NewManager(b bus.Bus, store *Store, baseLog *logger.Logger) *Manager {
	return &Manager{
		bus:   b,
		store: store,
		log:   baseLog.With("component", "client_manager"),
		subs:  make(map[string]managedSub),
	}
}

// Sync diffs the wanted topics against the live subscriptions. New
// topics are subscribed, dropped topics unsubscribed; both directions
// block until the transport acknowledges, so after Sync returns no
// handler for a dropped topic will fire again.
func (m *Manager) Sync(ctx context.Context, wanted []TopicSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[string]events.Family, len(wanted))
	for _, spec := range wanted {
		want[spec.Topic] = spec.Family
	}

	for topicName, ms := range m.subs {
		if _, keep := want[topicName]; keep {
			continue
		}
		if err := ms.sub.Unsubscribe(ctx); err != nil {
			return err
		}
		delete(m.subs, topicName)
	}

	for topicName, family := range want {
		if _, ok := m.subs[topicName]; ok {
			continue
		}
		fam := family
		sub, err := m.bus.Subscribe(ctx, topicName, func(msg realtime.Message) {
			m.dispatch(fam, msg)
		})
		if err != nil {
			return err
		}
		m.subs[topicName] = managedSub{sub: sub, family: family}
	}
	return nil
}

// Topics returns the currently subscribed topic names.
func (m *Manager) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.subs))
	for t := range m.subs {
		out = append(out, t)
	}
	return out
}

// Close drops every subscription.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for topicName, ms := range m.subs {
		if err := ms.sub.Unsubscribe(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.subs, topicName)
	}
	return firstErr
}

// dispatch validates an incoming event against its family schema and
// applies it. Schema violations are logged and dropped whole; state is
// never touched by a payload that failed validation.
func (m *Manager) dispatch(family events.Family, msg realtime.Message) {
	v, err := events.Decode(family, events.Name(msg.Event), msg.Data)
	if err != nil {
		if errors.Is(err, events.ErrSchemaViolation) {
			m.log.Warn("dropping event", "topic", msg.Topic, "event", msg.Event, "error", err)
			return
		}
		m.log.Error("decode event", "topic", msg.Topic, "event", msg.Event, "error", err)
		return
	}

	switch p := v.(type) {
	case events.MessageSent:
		m.store.ApplyMessageSent(p.MessageWithRefs, p.Nonce)
	case events.DirectMessageSent:
		m.store.ApplyMessageSent(p.MessageWithRefs, p.Nonce)
	case events.ChatMessageUpdated:
		m.applyUpdateByID(p.ID, p.Content)
	case events.DMMessageUpdated:
		m.applyUpdateByID(p.ID, p.Content)
	case events.ChatMessageDeleted:
		m.applyDeleteByID(p.ID)
	case events.DMMessageDeleted:
		m.applyDeleteByID(p.ID)
	case events.GroupRecord:
		switch events.Name(msg.Event) {
		case events.EventGroupCreated:
			m.store.ApplyGroupCreated(types.Group(p))
		default:
			m.store.ApplyGroupUpdated(types.Group(p))
		}
	case events.GroupID:
		switch events.Name(msg.Event) {
		case events.EventGroupRemoved:
			m.store.ApplyGroupRemoved(p.ID)
		default:
			m.store.ApplyGroupDeleted(p.ID)
		}
	case events.Typing:
		// Ephemeral; nothing to store.
	}
}

// Update and delete events carry a message id but not a channel id, so
// the store is probed channel by channel.
func (m *Manager) applyUpdateByID(id int, content string) {
	for channelID := range m.store.channelIDs() {
		m.store.ApplyMessageUpdated(channelID, id, content)
	}
}

func (m *Manager) applyDeleteByID(id int) {
	for channelID := range m.store.channelIDs() {
		m.store.ApplyMessageDeleted(channelID, id)
	}
}
