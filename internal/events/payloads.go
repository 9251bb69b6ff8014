package events

import (
	"fmt"

	"github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
)

// Typing is the ephemeral typing indicator. It never enters message state.
type Typing struct {
	User chat.UserInfo `json:"user"`
}

func (p Typing) validate() error {
	if p.User.ID == "" {
		return fmt.Errorf("missing user.id")
	}
	return nil
}

// MessageSent carries the full joined message published on a chat topic,
// plus the sender's optional reconciliation nonce.
type MessageSent struct {
	chat.MessageWithRefs
	Nonce *int64 `json:"nonce,omitempty"`
}

func (p MessageSent) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if p.ChannelID == "" {
		return fmt.Errorf("missing channel_id")
	}
	if p.AuthorID == "" {
		return fmt.Errorf("missing author_id")
	}
	return nil
}

// DirectMessageSent is the private-topic variant of MessageSent, announcing
// an incoming DM together with receiver info.
type DirectMessageSent struct {
	chat.MessageWithRefs
	Receiver chat.UserInfo `json:"receiver"`
	Nonce    *int64        `json:"nonce,omitempty"`
}

func (p DirectMessageSent) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if p.AuthorID == "" {
		return fmt.Errorf("missing author_id")
	}
	if p.Receiver.ID == "" {
		return fmt.Errorf("missing receiver.id")
	}
	return nil
}

// DMMessageUpdated is the dm-family message_updated subset.
type DMMessageUpdated struct {
	ID         int    `json:"id"`
	AuthorID   string `json:"author_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (p DMMessageUpdated) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if p.AuthorID == "" || p.ReceiverID == "" {
		return fmt.Errorf("missing author_id or receiver_id")
	}
	return nil
}

// DMMessageDeleted is the dm-family message_deleted subset.
type DMMessageDeleted struct {
	ID         int    `json:"id"`
	AuthorID   string `json:"author_id"`
	ReceiverID string `json:"receiver_id"`
}

func (p DMMessageDeleted) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if p.AuthorID == "" || p.ReceiverID == "" {
		return fmt.Errorf("missing author_id or receiver_id")
	}
	return nil
}

// ChatMessageUpdated is the chat-family message_updated subset.
type ChatMessageUpdated struct {
	ID      int    `json:"id"`
	GroupID int    `json:"group_id"`
	Content string `json:"content"`
}

func (p ChatMessageUpdated) validate() error {
	if p.ID == 0 || p.GroupID == 0 {
		return fmt.Errorf("missing id or group_id")
	}
	return nil
}

// ChatMessageDeleted is the chat-family message_deleted subset.
type ChatMessageDeleted struct {
	ID      int    `json:"id"`
	GroupID int    `json:"group_id"`
}

func (p ChatMessageDeleted) validate() error {
	if p.ID == 0 || p.GroupID == 0 {
		return fmt.Errorf("missing id or group_id")
	}
	return nil
}

// GroupRecord is a full group record, used by group_created and
// group_updated.
type GroupRecord chat.Group

func (p GroupRecord) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	return nil
}

// GroupID references a group by id only, used by group_removed and
// group_deleted.
type GroupID struct {
	ID int `json:"id"`
}

func (p GroupID) validate() error {
	if p.ID == 0 {
		return fmt.Errorf("missing id")
	}
	return nil
}
