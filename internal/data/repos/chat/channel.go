package chat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/topic"
)

type ChannelRepo interface {
	Create(dbc dbctx.Context, ch *types.MessageChannel) error
	GetByID(dbc dbctx.Context, id string) (*types.MessageChannel, error)
	// SetLastMessage moves the channel's last-message pointer. Callers
	// treat failures as best-effort; the pointer is a UI acceleration.
	SetLastMessage(dbc dbctx.Context, channelID string, messageID int) error
	// GetOrCreateDM resolves the single channel shared by a user pair,
	// creating it on first contact. Argument order does not matter.
	GetOrCreateDM(dbc dbctx.Context, userA, userB string) (*types.MessageChannel, error)
	// GetDMPair returns the user pair a DM channel belongs to.
	GetDMPair(dbc dbctx.Context, channelID string) (*types.DirectMessageChannel, error)
}

type channelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChannelRepo(db *gorm.DB, log *logger.Logger) ChannelRepo {
	return &channelRepo{db: db, log: log.With("repo", "ChannelRepo")}
}

func (r *channelRepo) Create(dbc dbctx.Context, ch *types.MessageChannel) error {
	if ch == nil {
		return fmt.Errorf("missing channel")
	}
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(ch).Error
}

func (r *channelRepo) GetByID(dbc dbctx.Context, id string) (*types.MessageChannel, error) {
	if id == "" {
		return nil, fmt.Errorf("missing channel id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var ch types.MessageChannel
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("channel %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *channelRepo) SetLastMessage(dbc dbctx.Context, channelID string, messageID int) error {
	if channelID == "" {
		return fmt.Errorf("missing channel id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.MessageChannel{}).
		Where("id = ?", channelID).
		Update("last_message_id", messageID).Error
}

func (r *channelRepo) GetDMPair(dbc dbctx.Context, channelID string) (*types.DirectMessageChannel, error) {
	if channelID == "" {
		return nil, fmt.Errorf("missing channel id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var mapping types.DirectMessageChannel
	err := txx.WithContext(dbc.Ctx).Where("channel_id = ?", channelID).Take(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("dm channel %s: %w", channelID, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *channelRepo) GetOrCreateDM(dbc dbctx.Context, userA, userB string) (*types.MessageChannel, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("missing user id")
	}
	first, second := topic.DMKey(userA, userB)
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}

	var mapping types.DirectMessageChannel
	err := txx.WithContext(dbc.Ctx).
		Where("user_a = ? AND user_b = ?", first, second).
		Take(&mapping).Error
	if err == nil {
		return r.GetByID(dbc, mapping.ChannelID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ch := &types.MessageChannel{ID: uuid.NewString(), Type: types.ChannelTypeDM}
	if err := txx.WithContext(dbc.Ctx).Create(ch).Error; err != nil {
		return nil, err
	}
	mapping = types.DirectMessageChannel{ChannelID: ch.ID, UserA: first, UserB: second}
	if err := txx.WithContext(dbc.Ctx).Create(&mapping).Error; err != nil {
		return nil, err
	}
	return ch, nil
}
