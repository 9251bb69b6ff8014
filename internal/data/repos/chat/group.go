package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

type GroupRepo interface {
	Create(dbc dbctx.Context, g *types.Group) error
	GetByID(dbc dbctx.Context, id int) (*types.Group, error)
	GetByChannelID(dbc dbctx.Context, channelID string) (*types.Group, error)
	Update(dbc dbctx.Context, g *types.Group) error
	Delete(dbc dbctx.Context, id int) error
	AddMember(dbc dbctx.Context, groupID int, userID string) error
	RemoveMember(dbc dbctx.Context, groupID int, userID string) error
	ListMemberIDs(dbc dbctx.Context, groupID int) ([]string, error)
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, log *logger.Logger) GroupRepo {
	return &groupRepo{db: db, log: log.With("repo", "GroupRepo")}
}

func (r *groupRepo) Create(dbc dbctx.Context, g *types.Group) error {
	if g == nil {
		return fmt.Errorf("missing group")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(g).Error
}

func (r *groupRepo) GetByID(dbc dbctx.Context, id int) (*types.Group, error) {
	if id == 0 {
		return nil, fmt.Errorf("missing group id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var g types.Group
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("group %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) GetByChannelID(dbc dbctx.Context, channelID string) (*types.Group, error) {
	if channelID == "" {
		return nil, fmt.Errorf("missing channel id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var g types.Group
	err := txx.WithContext(dbc.Ctx).Where("channel_id = ?", channelID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("group channel %s: %w", channelID, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepo) Update(dbc dbctx.Context, g *types.Group) error {
	if g == nil || g.ID == 0 {
		return fmt.Errorf("missing group id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Save(g).Error
}

func (r *groupRepo) Delete(dbc dbctx.Context, id int) error {
	if id == 0 {
		return fmt.Errorf("missing group id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Where("group_id = ?", id).Delete(&types.Member{}).Error; err != nil {
		return err
	}
	return txx.WithContext(dbc.Ctx).Delete(&types.Group{}, id).Error
}

func (r *groupRepo) AddMember(dbc dbctx.Context, groupID int, userID string) error {
	if groupID == 0 || userID == "" {
		return fmt.Errorf("missing group or user id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(&types.Member{GroupID: groupID, UserID: userID}).Error
}

func (r *groupRepo) RemoveMember(dbc dbctx.Context, groupID int, userID string) error {
	if groupID == 0 || userID == "" {
		return fmt.Errorf("missing group or user id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&types.Member{}).Error
}

func (r *groupRepo) ListMemberIDs(dbc dbctx.Context, groupID int) ([]string, error) {
	if groupID == 0 {
		return nil, fmt.Errorf("missing group id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var ids []string
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Member{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
