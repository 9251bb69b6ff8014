// Package client keeps a subscriber's local view of chat state in sync
// with the event stream: optimistic sends, idempotent event application
// and group lifecycle handling.
package client

import (
	"sync"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

// Entry is one message slot in a channel view. Pending entries are
// optimistic local sends still waiting for their message_sent echo.
type Entry struct {
	Message types.MessageWithRefs
	Nonce   *int64
	Pending bool
}

// Store is the client-side state: per-channel message lists plus the
// group listing. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	log      *logger.Logger
	channels map[string][]Entry
	groups   map[int]types.Group

	// activeGroupID is the group the user is currently viewing, 0 when
	// none. onRedirect fires when that group is deleted under them.
	activeGroupID int
	onRedirect    func(groupID int)
}

func NewStore(baseLog *logger.Logger) *Store {
	return &Store{
		log:      baseLog.With("component", "client_store"),
		channels: make(map[string][]Entry),
		groups:   make(map[int]types.Group),
	}
}

// SetActiveGroup records which group the user is viewing and the
// callback to run if that group disappears.
func (s *Store) SetActiveGroup(groupID int, onRedirect func(groupID int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeGroupID = groupID
	s.onRedirect = onRedirect
}

// Messages returns a copy of a channel's current entries in order.
func (s *Store) Messages(channelID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.channels[channelID]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// Groups returns the cached group listing.
func (s *Store) Groups() []types.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	return out
}

// channelIDs snapshots the ids of channels with loaded state.
func (s *Store) channelIDs() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.channels))
	for id := range s.channels {
		out[id] = struct{}{}
	}
	return out
}

// AddPending appends an optimistic entry for a send in flight. The
// nonce ties it to the message_sent echo that will confirm it.
func (s *Store) AddPending(channelID string, content string, authorID string, nonce int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := nonce
	s.channels[channelID] = append(s.channels[channelID], Entry{
		Message: types.MessageWithRefs{
			Message: types.Message{ChannelID: channelID, AuthorID: authorID, Content: content},
			Author:  types.UserInfo{ID: authorID},
		},
		Nonce:   &n,
		Pending: true,
	})
}

// RollbackPending drops the optimistic entry for a send that failed.
func (s *Store) RollbackPending(channelID string, nonce int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.channels[channelID]
	for i, e := range entries {
		if e.Pending && e.Nonce != nil && *e.Nonce == nonce {
			s.channels[channelID] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// ApplyMessageSent folds a message_sent event into the channel view.
// A matching pending nonce confirms the optimistic entry in place; a
// known message id makes the event a no-op; anything else appends.
func (s *Store) ApplyMessageSent(m types.MessageWithRefs, nonce *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.channels[m.ChannelID]

	if nonce != nil {
		for i, e := range entries {
			if e.Pending && e.Nonce != nil && *e.Nonce == *nonce {
				entries[i] = Entry{Message: m, Nonce: nonce}
				return
			}
		}
	}
	for _, e := range entries {
		if !e.Pending && e.Message.ID == m.ID {
			return
		}
	}
	s.channels[m.ChannelID] = append(entries, Entry{Message: m, Nonce: nonce})
}

// ApplyMessageUpdated rewrites the content of a known message. Unknown
// ids are ignored; the row was outside the loaded window.
func (s *Store) ApplyMessageUpdated(channelID string, id int, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.channels[channelID]
	for i, e := range entries {
		if !e.Pending && e.Message.ID == id {
			entries[i].Message.Content = content
			return
		}
	}
}

// ApplyMessageDeleted removes a known message. Unknown ids are ignored.
func (s *Store) ApplyMessageDeleted(channelID string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.channels[channelID]
	for i, e := range entries {
		if !e.Pending && e.Message.ID == id {
			s.channels[channelID] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// ApplyGroupCreated adds or refreshes a group in the listing.
func (s *Store) ApplyGroupCreated(g types.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
}

// ApplyGroupUpdated merges a fresh group record over the cached one.
func (s *Store) ApplyGroupUpdated(g types.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[g.ID]; !ok {
		return
	}
	s.groups[g.ID] = g
}

// ApplyGroupDeleted drops the group and its channel state. If the user
// is viewing the group the redirect callback fires exactly once.
func (s *Store) ApplyGroupDeleted(groupID int) {
	s.mu.Lock()
	g, ok := s.groups[groupID]
	if ok {
		delete(s.groups, groupID)
		delete(s.channels, g.ChannelID)
	}
	redirect := s.onRedirect
	fire := s.activeGroupID == groupID && redirect != nil
	if fire {
		s.activeGroupID = 0
	}
	s.mu.Unlock()

	if fire {
		redirect(groupID)
	}
}

// ApplyGroupRemoved handles the private-topic group_removed event. Same
// local effect as a delete: the user lost access either way.
func (s *Store) ApplyGroupRemoved(groupID int) {
	s.ApplyGroupDeleted(groupID)
}
