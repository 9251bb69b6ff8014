package chat

const (
	ChannelTypeGroup = "group"
	ChannelTypeDM    = "dm"
)

// MessageChannel is the shared container both group chats and DM pairs
// write messages into. LastMessageID is a best-effort acceleration for
// channel-list views, not a correctness source.
type MessageChannel struct {
	ID            string `gorm:"type:varchar(32);primaryKey" json:"id"`
	Type          string `gorm:"type:varchar(8);not null" json:"type"`
	LastMessageID *int   `gorm:"column:last_message_id" json:"last_message_id"`
}

func (MessageChannel) TableName() string { return "message_channel" }

// DirectMessageChannel maps an unordered user pair to its channel row.
// UserA/UserB are stored in dm-topic order so a pair maps to one row.
type DirectMessageChannel struct {
	ChannelID string `gorm:"type:varchar(32);not null;index" json:"channel_id"`
	UserA     string `gorm:"type:varchar(191);primaryKey" json:"user_a"`
	UserB     string `gorm:"type:varchar(191);primaryKey" json:"user_b"`
}

func (DirectMessageChannel) TableName() string { return "direct_message_channel" }
