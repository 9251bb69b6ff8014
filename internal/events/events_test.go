package events

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
func i64ptr(i int64) *int64   { return &i }

func sampleMessage() chat.MessageWithRefs {
	return chat.MessageWithRefs{
		Message: chat.Message{
			ID:        7,
			ChannelID: "ch-1",
			AuthorID:  "u1",
			Content:   "hello https://example.com",
			Timestamp: time.Date(2024, 5, 1, 12, 30, 0, 450e6, time.UTC),
		},
		Author: chat.UserInfo{ID: "u1", Name: "Alice", Image: strptr("https://cdn/a.png")},
		Embeds: []chat.Embed{{URL: "https://example.com", Title: "Example"}},
	}
}

func samplePayloads() map[Family]map[Name]any {
	msg := sampleMessage()
	group := GroupRecord{
		ID:         3,
		Name:       "space",
		UniqueName: "space",
		OwnerID:    "u1",
		ChannelID:  "ch-3",
	}
	return map[Family]map[Name]any{
		FamilyPrivate: {
			EventGroupCreated: group,
			EventGroupRemoved: GroupID{ID: 3},
			EventMessageSent: DirectMessageSent{
				MessageWithRefs: msg,
				Receiver:        chat.UserInfo{ID: "u2", Name: "Bob"},
				Nonce:           i64ptr(99),
			},
		},
		FamilyDM: {
			EventTyping:         Typing{User: chat.UserInfo{ID: "u1", Name: "Alice"}},
			EventMessageUpdated: DMMessageUpdated{ID: 7, AuthorID: "u1", ReceiverID: "u2", Content: "edited"},
			EventMessageDeleted: DMMessageDeleted{ID: 7, AuthorID: "u1", ReceiverID: "u2"},
		},
		FamilyChat: {
			EventTyping:         Typing{User: chat.UserInfo{ID: "u1", Name: "Alice"}},
			EventMessageSent:    MessageSent{MessageWithRefs: msg, Nonce: i64ptr(42)},
			EventMessageUpdated: ChatMessageUpdated{ID: 7, GroupID: 3, Content: "edited"},
			EventMessageDeleted: ChatMessageDeleted{ID: 7, GroupID: 3},
			EventGroupUpdated:   group,
			EventGroupDeleted:   GroupID{ID: 3},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for family, byName := range samplePayloads() {
		for name, payload := range byName {
			raw, err := Encode(family, name, payload)
			if err != nil {
				t.Fatalf("Encode(%s/%s): %v", family, name, err)
			}
			got, err := Decode(family, name, raw)
			if err != nil {
				t.Fatalf("Decode(%s/%s): %v", family, name, err)
			}
			if !reflect.DeepEqual(got, payload) {
				t.Fatalf("round-trip %s/%s: got %#v, want %#v", family, name, got, payload)
			}
		}
	}
}

func TestRegistryCoversEveryDeclaredEvent(t *testing.T) {
	want := map[Family][]Name{
		FamilyPrivate: {EventGroupCreated, EventGroupRemoved, EventMessageSent},
		FamilyDM:      {EventTyping, EventMessageUpdated, EventMessageDeleted},
		FamilyChat: {
			EventTyping, EventMessageSent, EventMessageUpdated,
			EventMessageDeleted, EventGroupUpdated, EventGroupDeleted,
		},
	}
	for family, names := range want {
		if got := len(Names(family)); got != len(names) {
			t.Fatalf("family %s: %d events, want %d", family, got, len(names))
		}
		for _, name := range names {
			if _, err := lookup(family, name); err != nil {
				t.Fatalf("family %s missing %s: %v", family, name, err)
			}
		}
	}
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := Decode(FamilyDM, EventGroupCreated, []byte(`{}`))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("unknown event: err = %v, want ErrSchemaViolation", err)
	}
	_, err = Decode(Family("bogus"), EventTyping, []byte(`{}`))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("unknown family: err = %v, want ErrSchemaViolation", err)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"user":{"id":""}}`),
		[]byte(`{"unknown_field":true}`),
	}
	for _, raw := range cases {
		if _, err := Decode(FamilyChat, EventTyping, raw); !errors.Is(err, ErrSchemaViolation) {
			t.Fatalf("Decode(%s): err = %v, want ErrSchemaViolation", raw, err)
		}
	}
}

func TestEncodeRejectsWrongType(t *testing.T) {
	_, err := Encode(FamilyChat, EventMessageSent, Typing{User: chat.UserInfo{ID: "u1"}})
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("wrong type: err = %v, want ErrSchemaViolation", err)
	}
	_, err = Encode(FamilyChat, EventMessageSent, MessageSent{})
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("invalid value: err = %v, want ErrSchemaViolation", err)
	}
}

func TestGroupIDZeroRejected(t *testing.T) {
	if _, err := Decode(FamilyChat, EventGroupDeleted, []byte(`{"id":0}`)); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("zero id: err = %v, want ErrSchemaViolation", err)
	}
}
