package chat

const (
	AttachmentTypeImage = "image"
	AttachmentTypeVideo = "video"
	AttachmentTypeRaw   = "raw"
)

// Attachment metadata for a file a collaborator already uploaded.
// The pipeline only persists the row and links it to one message.
type Attachment struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	URL    string `gorm:"type:varchar(255);not null" json:"url"`
	Type   string `gorm:"type:varchar(8);not null" json:"type"`
	Bytes  int    `gorm:"not null" json:"bytes"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

func (Attachment) TableName() string { return "attachment" }

// UploadAttachment is the pre-uploaded metadata supplied on message send,
// before a row id is assigned.
type UploadAttachment struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Type   string `json:"type"`
	Bytes  int    `json:"bytes"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}
