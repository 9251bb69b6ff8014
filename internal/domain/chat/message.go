package chat

import (
	"time"

	"gorm.io/datatypes"
)

// MaxContentLength bounds message content, matching the column size.
const MaxContentLength = 2000

type Message struct {
	ID           int            `gorm:"primaryKey;autoIncrement" json:"id"`
	ChannelID    string         `gorm:"type:varchar(32);not null;index" json:"channel_id"`
	AuthorID     string         `gorm:"type:varchar(191);not null;index" json:"author_id"`
	Content      string         `gorm:"type:varchar(2000);not null" json:"content"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	AttachmentID *string        `gorm:"type:varchar(36)" json:"attachment_id,omitempty"`
	ReplyID      *int           `gorm:"column:reply_id" json:"reply_id,omitempty"`
	EmbedsRaw    datatypes.JSON `gorm:"column:embeds" json:"-"`
}

func (Message) TableName() string { return "message" }

// Embed is link-preview metadata derived from a URL in message content.
type Embed struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// ReplyPreview is the content of a replied-to message, joined for display.
type ReplyPreview struct {
	Content string `json:"content"`
}

// MessageWithRefs is a message joined with its author profile, attachment,
// decoded embeds and reply preview. This is what the pipeline returns and
// what message_sent events carry.
type MessageWithRefs struct {
	Message
	Author       UserInfo      `json:"author"`
	Attachment   *Attachment   `json:"attachment"`
	Embeds       []Embed       `json:"embeds"`
	ReplyMessage *ReplyPreview `json:"reply_message"`
	ReplyUser    *UserInfo     `json:"reply_user"`
}
