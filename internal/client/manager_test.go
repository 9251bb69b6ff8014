package client

import (
	"context"
	"encoding/json"
	"testing"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime/bus"
	"github.com/issam-seghir/shark-chat-backend/internal/topic"
)

func publishSent(t *testing.T, b bus.Bus, topicName string, m types.MessageWithRefs) {
	t.Helper()
	raw, err := events.Encode(events.FamilyChat, events.EventMessageSent, events.MessageSent{MessageWithRefs: m})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.Message{
		Topic: topicName,
		Event: string(events.EventMessageSent),
		Data:  json.RawMessage(raw),
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestManagerDispatchesValidatedEvents(t *testing.T) {
	ctx := context.Background()
	b := bus.NewMemoryBus(testLogger(t))
	defer b.Close()
	store := NewStore(testLogger(t))
	m := NewManager(b, store, testLogger(t))
	defer m.Close(ctx)

	groupTopic := topic.ForGroup(7)
	if err := m.Sync(ctx, []TopicSpec{{Topic: groupTopic, Family: events.FamilyChat}}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	publishSent(t, b, groupTopic, sent("ch", 10, "hello"))

	got := store.Messages("ch")
	if len(got) != 1 || got[0].Message.Content != "hello" {
		t.Fatalf("store = %+v", got)
	}
}

func TestManagerDropsMalformedPayloadWhole(t *testing.T) {
	ctx := context.Background()
	b := bus.NewMemoryBus(testLogger(t))
	defer b.Close()
	store := NewStore(testLogger(t))
	m := NewManager(b, store, testLogger(t))
	defer m.Close(ctx)

	groupTopic := topic.ForGroup(7)
	if err := m.Sync(ctx, []TopicSpec{{Topic: groupTopic, Family: events.FamilyChat}}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// Unknown field and a missing id, both must be discarded entirely.
	for _, raw := range []string{
		`{"id":10,"channel_id":"ch","author_id":"u1","content":"x","sneaky":true}`,
		`{"channel_id":"ch","author_id":"u1","content":"x"}`,
	} {
		if err := b.Publish(ctx, realtime.Message{
			Topic: groupTopic,
			Event: string(events.EventMessageSent),
			Data:  json.RawMessage(raw),
		}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if got := store.Messages("ch"); len(got) != 0 {
		t.Fatalf("store = %+v, want untouched", got)
	}
}

func TestManagerSyncUnsubscribesDroppedTopics(t *testing.T) {
	ctx := context.Background()
	b := bus.NewMemoryBus(testLogger(t))
	defer b.Close()
	store := NewStore(testLogger(t))
	m := NewManager(b, store, testLogger(t))
	defer m.Close(ctx)

	groupTopic := topic.ForGroup(7)
	if err := m.Sync(ctx, []TopicSpec{{Topic: groupTopic, Family: events.FamilyChat}}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	// Drop every topic. After Sync returns no handler may fire again.
	if err := m.Sync(ctx, nil); err != nil {
		t.Fatalf("Sync empty: %v", err)
	}
	if topics := m.Topics(); len(topics) != 0 {
		t.Fatalf("topics = %v, want none", topics)
	}

	publishSent(t, b, groupTopic, sent("ch", 10, "stale"))

	if got := store.Messages("ch"); len(got) != 0 {
		t.Fatalf("stale event applied: %+v", got)
	}
}

func TestManagerGroupLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	b := bus.NewMemoryBus(testLogger(t))
	defer b.Close()
	store := NewStore(testLogger(t))
	m := NewManager(b, store, testLogger(t))
	defer m.Close(ctx)

	userTopic := topic.ForUser("u1")
	groupTopic := topic.ForGroup(5)
	if err := m.Sync(ctx, []TopicSpec{
		{Topic: userTopic, Family: events.FamilyPrivate},
		{Topic: groupTopic, Family: events.FamilyChat},
	}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	g := types.Group{ID: 5, Name: "room", OwnerID: "u1", ChannelID: "ch", UniqueName: "room"}
	raw, err := events.Encode(events.FamilyPrivate, events.EventGroupCreated, events.GroupRecord(g))
	if err != nil {
		t.Fatalf("encode created: %v", err)
	}
	if err := b.Publish(ctx, realtime.Message{Topic: userTopic, Event: string(events.EventGroupCreated), Data: raw}); err != nil {
		t.Fatalf("publish created: %v", err)
	}
	if groups := store.Groups(); len(groups) != 1 || groups[0].Name != "room" {
		t.Fatalf("groups = %+v", groups)
	}

	g.Name = "renamed"
	raw, err = events.Encode(events.FamilyChat, events.EventGroupUpdated, events.GroupRecord(g))
	if err != nil {
		t.Fatalf("encode updated: %v", err)
	}
	if err := b.Publish(ctx, realtime.Message{Topic: groupTopic, Event: string(events.EventGroupUpdated), Data: raw}); err != nil {
		t.Fatalf("publish updated: %v", err)
	}
	if groups := store.Groups(); len(groups) != 1 || groups[0].Name != "renamed" {
		t.Fatalf("groups = %+v", groups)
	}

	raw, err = events.Encode(events.FamilyChat, events.EventGroupDeleted, events.GroupID{ID: 5})
	if err != nil {
		t.Fatalf("encode deleted: %v", err)
	}
	if err := b.Publish(ctx, realtime.Message{Topic: groupTopic, Event: string(events.EventGroupDeleted), Data: raw}); err != nil {
		t.Fatalf("publish deleted: %v", err)
	}
	if groups := store.Groups(); len(groups) != 0 {
		t.Fatalf("groups = %+v, want none", groups)
	}
}
