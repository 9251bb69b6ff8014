package chat

type User struct {
	ID    string  `gorm:"type:varchar(191);primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(191);not null;default:'User'" json:"name"`
	Email *string `gorm:"type:varchar(191);uniqueIndex" json:"email,omitempty"`
	Image *string `gorm:"type:varchar(191)" json:"image"`
}

func (User) TableName() string { return "user" }

// UserInfo is the profile subset joined onto messages and carried in events.
type UserInfo struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Image: u.Image}
}
