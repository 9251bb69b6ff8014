// Package events declares, per topic family, the closed set of event
// names and their payload shapes. All payloads cross the transport as
// JSON and are validated here before they may touch subscriber state.
package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSchemaViolation marks an unknown event name or a payload that does
// not match its declared shape. The affected event is discarded; it must
// never be partially applied.
var ErrSchemaViolation = errors.New("schema violation")

type Family string

const (
	FamilyPrivate Family = "private"
	FamilyDM      Family = "dm"
	FamilyChat    Family = "chat"
)

type Name string

const (
	EventTyping         Name = "typing"
	EventMessageSent    Name = "message_sent"
	EventMessageUpdated Name = "message_updated"
	EventMessageDeleted Name = "message_deleted"
	EventGroupCreated   Name = "group_created"
	EventGroupRemoved   Name = "group_removed"
	EventGroupUpdated   Name = "group_updated"
	EventGroupDeleted   Name = "group_deleted"
)

type payload interface {
	validate() error
}

type entry struct {
	decode func(raw []byte) (any, error)
	encode func(v any) ([]byte, error)
}

func def[T payload]() entry {
	return entry{
		decode: func(raw []byte) (any, error) {
			var v T
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("%w: decode %T: %v", ErrSchemaViolation, v, err)
			}
			if err := v.validate(); err != nil {
				return nil, fmt.Errorf("%w: %T: %v", ErrSchemaViolation, v, err)
			}
			return v, nil
		},
		encode: func(v any) ([]byte, error) {
			tv, ok := v.(T)
			if !ok {
				var want T
				return nil, fmt.Errorf("%w: payload is %T, want %T", ErrSchemaViolation, v, want)
			}
			if err := tv.validate(); err != nil {
				return nil, fmt.Errorf("%w: %T: %v", ErrSchemaViolation, tv, err)
			}
			return json.Marshal(tv)
		},
	}
}

var registry = map[Family]map[Name]entry{
	FamilyPrivate: {
		EventGroupCreated: def[GroupRecord](),
		EventGroupRemoved: def[GroupID](),
		EventMessageSent:  def[DirectMessageSent](),
	},
	FamilyDM: {
		EventTyping:         def[Typing](),
		EventMessageUpdated: def[DMMessageUpdated](),
		EventMessageDeleted: def[DMMessageDeleted](),
	},
	FamilyChat: {
		EventTyping:         def[Typing](),
		EventMessageSent:    def[MessageSent](),
		EventMessageUpdated: def[ChatMessageUpdated](),
		EventMessageDeleted: def[ChatMessageDeleted](),
		EventGroupUpdated:   def[GroupRecord](),
		EventGroupDeleted:   def[GroupID](),
	},
}

func lookup(family Family, event Name) (entry, error) {
	fam, ok := registry[family]
	if !ok {
		return entry{}, fmt.Errorf("%w: unknown family %q", ErrSchemaViolation, family)
	}
	e, ok := fam[event]
	if !ok {
		return entry{}, fmt.Errorf("%w: unknown event %q in family %q", ErrSchemaViolation, event, family)
	}
	return e, nil
}

// Decode validates a raw payload against the declared shape for
// (family, event) and returns the typed value.
func Decode(family Family, event Name, raw []byte) (any, error) {
	e, err := lookup(family, event)
	if err != nil {
		return nil, err
	}
	return e.decode(raw)
}

// Encode is the inverse of Decode: any value it accepts round-trips
// through Decode unchanged.
func Encode(family Family, event Name, v any) ([]byte, error) {
	e, err := lookup(family, event)
	if err != nil {
		return nil, err
	}
	return e.encode(v)
}

// Names returns the closed event set of a family.
func Names(family Family) []Name {
	fam := registry[family]
	out := make([]Name, 0, len(fam))
	for name := range fam {
		out = append(out, name)
	}
	return out
}
