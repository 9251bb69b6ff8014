package chat

type Group struct {
	ID         int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"type:varchar(256);not null" json:"name"`
	UniqueName string `gorm:"type:varchar(32);not null;uniqueIndex" json:"unique_name"`
	IconHash   *int   `gorm:"column:icon_hash" json:"icon_hash"`
	OwnerID    string `gorm:"type:varchar(191);not null;index" json:"owner_id"`
	Public     bool   `gorm:"not null;default:false" json:"public"`
	ChannelID  string `gorm:"type:varchar(32);not null" json:"channel_id"`
}

func (Group) TableName() string { return "group" }

type Member struct {
	GroupID int    `gorm:"primaryKey" json:"group_id"`
	UserID  string `gorm:"type:varchar(191);primaryKey" json:"user_id"`
}

func (Member) TableName() string { return "member" }
