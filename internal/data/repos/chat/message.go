package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, m *types.Message) error
	// GetJoined re-reads a message joined with author profile, attachment
	// and reply preview. Returns types.ErrNotFound when the row is missing.
	GetJoined(dbc dbctx.Context, id int) (*types.MessageWithRefs, error)
	// List pages a channel's history newest-first. after/before are
	// exclusive id cursors and may be combined.
	List(dbc dbctx.Context, channelID string, limit int, after, before *int) ([]*types.MessageWithRefs, error)
	UpdateContent(dbc dbctx.Context, id int, content string) error
	Delete(dbc dbctx.Context, id int) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, m *types.Message) error {
	if m == nil {
		return fmt.Errorf("missing message")
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(m).Error
}

const joinedSelect = `
SELECT m.id, m.channel_id, m.author_id, m.content, m.timestamp, m.attachment_id, m.reply_id, m.embeds,
       u.name AS author_name, u.image AS author_image,
       a.name AS att_name, a.url AS att_url, a.type AS att_type,
       a.bytes AS att_bytes, a.width AS att_width, a.height AS att_height,
       rm.content AS reply_content,
       ru.id AS reply_author_id, ru.name AS reply_author_name, ru.image AS reply_author_image
FROM "message" m
INNER JOIN "user" u ON u.id = m.author_id
LEFT JOIN "attachment" a ON a.id = m.attachment_id
LEFT JOIN "message" rm ON rm.id = m.reply_id
LEFT JOIN "user" ru ON ru.id = rm.author_id
`

type messageRow struct {
	types.Message
	AuthorName       string  `gorm:"column:author_name"`
	AuthorImage      *string `gorm:"column:author_image"`
	AttName          *string `gorm:"column:att_name"`
	AttURL           *string `gorm:"column:att_url"`
	AttType          *string `gorm:"column:att_type"`
	AttBytes         *int    `gorm:"column:att_bytes"`
	AttWidth         *int    `gorm:"column:att_width"`
	AttHeight        *int    `gorm:"column:att_height"`
	ReplyContent     *string `gorm:"column:reply_content"`
	ReplyAuthorID    *string `gorm:"column:reply_author_id"`
	ReplyAuthorName  *string `gorm:"column:reply_author_name"`
	ReplyAuthorImage *string `gorm:"column:reply_author_image"`
}

func (r *messageRepo) assemble(row *messageRow) (*types.MessageWithRefs, error) {
	out := &types.MessageWithRefs{
		Message: row.Message,
		Author: types.UserInfo{
			ID:    row.AuthorID,
			Name:  row.AuthorName,
			Image: row.AuthorImage,
		},
	}
	if row.AttachmentID != nil && row.AttName != nil {
		out.Attachment = &types.Attachment{
			ID:     *row.AttachmentID,
			Name:   *row.AttName,
			URL:    derefString(row.AttURL),
			Type:   derefString(row.AttType),
			Bytes:  derefInt(row.AttBytes),
			Width:  row.AttWidth,
			Height: row.AttHeight,
		}
	}
	if len(row.EmbedsRaw) > 0 {
		var embeds []types.Embed
		if err := json.Unmarshal(row.EmbedsRaw, &embeds); err != nil {
			return nil, fmt.Errorf("decode embeds for message %d: %w", row.ID, err)
		}
		out.Embeds = embeds
	}
	if row.ReplyContent != nil {
		out.ReplyMessage = &types.ReplyPreview{Content: *row.ReplyContent}
	}
	if row.ReplyAuthorID != nil {
		out.ReplyUser = &types.UserInfo{
			ID:    *row.ReplyAuthorID,
			Name:  derefString(row.ReplyAuthorName),
			Image: row.ReplyAuthorImage,
		}
	}
	return out, nil
}

func (r *messageRepo) GetJoined(dbc dbctx.Context, id int) (*types.MessageWithRefs, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing message id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row messageRow
	err := txx.WithContext(dbc.Ctx).
		Raw(joinedSelect+`WHERE m.id = ?`, id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("message %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.assemble(&row)
}

func (r *messageRepo) List(dbc dbctx.Context, channelID string, limit int, after, before *int) ([]*types.MessageWithRefs, error) {
	if channelID == "" {
		return nil, fmt.Errorf("missing channel_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}

	query := joinedSelect + `WHERE m.channel_id = ?`
	args := []interface{}{channelID}
	if after != nil {
		query += ` AND m.id > ?`
		args = append(args, *after)
	}
	if before != nil {
		query += ` AND m.id < ?`
		args = append(args, *before)
	}
	query += ` ORDER BY m.timestamp DESC, m.id DESC LIMIT ?`
	args = append(args, limit)

	var rows []messageRow
	if err := txx.WithContext(dbc.Ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.MessageWithRefs, 0, len(rows))
	for i := range rows {
		m, err := r.assemble(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *messageRepo) UpdateContent(dbc dbctx.Context, id int, content string) error {
	if id == 0 {
		return fmt.Errorf("missing message id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (r *messageRepo) Delete(dbc dbctx.Context, id int) error {
	if id == 0 {
		return fmt.Errorf("missing message id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Delete(&types.Message{}, id).Error
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
