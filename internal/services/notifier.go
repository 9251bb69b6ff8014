package services

import (
	"context"
	"encoding/json"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime"
	"github.com/issam-seghir/shark-chat-backend/internal/realtime/bus"
	"github.com/issam-seghir/shark-chat-backend/internal/topic"
)

// Notifier publishes typed events to their topics. Every payload passes
// through the event registry before it leaves the process; publish
// failures are logged and swallowed so persistence never rolls back on
// a transport hiccup.
type Notifier interface {
	MessageSent(groupID int, ev *events.MessageSent)
	DirectMessageSent(userID string, ev *events.DirectMessageSent)
	Typing(family events.Family, topicName string, user types.UserInfo)

	ChatMessageUpdated(groupID int, ev *events.ChatMessageUpdated)
	ChatMessageDeleted(groupID int, ev *events.ChatMessageDeleted)
	DMMessageUpdated(ev *events.DMMessageUpdated)
	DMMessageDeleted(ev *events.DMMessageDeleted)

	GroupCreated(userID string, g *types.Group)
	GroupRemoved(userID string, groupID int)
	GroupUpdated(g *types.Group)
	GroupDeleted(groupID int)
}

type notifier struct {
	bus bus.Bus
	log *logger.Logger
}

func NewNotifier(b bus.Bus, baseLog *logger.Logger) Notifier {
	return &notifier{bus: b, log: baseLog.With("service", "Notifier")}
}

func (n *notifier) publish(family events.Family, topicName string, event events.Name, v any) {
	if n == nil || n.bus == nil || topicName == "" {
		return
	}
	raw, err := events.Encode(family, event, v)
	if err != nil {
		n.log.Error("encode event", "family", family, "event", event, "error", err)
		return
	}
	msg := realtime.Message{Topic: topicName, Event: string(event), Data: json.RawMessage(raw)}
	if err := n.bus.Publish(context.Background(), msg); err != nil {
		n.log.Error("publish event", "topic", topicName, "event", event, "error", err)
	}
}

func (n *notifier) MessageSent(groupID int, ev *events.MessageSent) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyChat, topic.ForGroup(groupID), events.EventMessageSent, *ev)
}

func (n *notifier) DirectMessageSent(userID string, ev *events.DirectMessageSent) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyPrivate, topic.ForUser(userID), events.EventMessageSent, *ev)
}

func (n *notifier) Typing(family events.Family, topicName string, user types.UserInfo) {
	n.publish(family, topicName, events.EventTyping, events.Typing{User: user})
}

func (n *notifier) ChatMessageUpdated(groupID int, ev *events.ChatMessageUpdated) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyChat, topic.ForGroup(groupID), events.EventMessageUpdated, *ev)
}

func (n *notifier) ChatMessageDeleted(groupID int, ev *events.ChatMessageDeleted) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyChat, topic.ForGroup(groupID), events.EventMessageDeleted, *ev)
}

func (n *notifier) DMMessageUpdated(ev *events.DMMessageUpdated) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyDM, topic.ForDM(ev.AuthorID, ev.ReceiverID), events.EventMessageUpdated, *ev)
}

func (n *notifier) DMMessageDeleted(ev *events.DMMessageDeleted) {
	if ev == nil {
		return
	}
	n.publish(events.FamilyDM, topic.ForDM(ev.AuthorID, ev.ReceiverID), events.EventMessageDeleted, *ev)
}

func (n *notifier) GroupCreated(userID string, g *types.Group) {
	if g == nil {
		return
	}
	n.publish(events.FamilyPrivate, topic.ForUser(userID), events.EventGroupCreated, events.GroupRecord(*g))
}

func (n *notifier) GroupRemoved(userID string, groupID int) {
	n.publish(events.FamilyPrivate, topic.ForUser(userID), events.EventGroupRemoved, events.GroupID{ID: groupID})
}

func (n *notifier) GroupUpdated(g *types.Group) {
	if g == nil {
		return
	}
	n.publish(events.FamilyChat, topic.ForGroup(g.ID), events.EventGroupUpdated, events.GroupRecord(*g))
}

func (n *notifier) GroupDeleted(groupID int) {
	n.publish(events.FamilyChat, topic.ForGroup(groupID), events.EventGroupDeleted, events.GroupID{ID: groupID})
}
