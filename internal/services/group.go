package services

import (
	"gorm.io/gorm"

	repos "github.com/issam-seghir/shark-chat-backend/internal/data/repos/chat"
	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

type CreateGroupInput struct {
	Name       string
	UniqueName string
	OwnerID    string
	Public     bool
}

type UpdateGroupInput struct {
	Name     *string
	IconHash *int
	Public   *bool
}

type GroupService interface {
	Create(dbc dbctx.Context, in CreateGroupInput) (*types.Group, error)
	Get(dbc dbctx.Context, id int) (*types.Group, error)
	// Update applies the non-nil fields and announces group_updated on
	// the group topic so open views refresh their cached record.
	Update(dbc dbctx.Context, id int, callerID string, in UpdateGroupInput) (*types.Group, error)
	// Delete removes the group with its membership and announces
	// group_deleted on the group topic; subscribers drop local state
	// and leave the topic.
	Delete(dbc dbctx.Context, id int, callerID string) error
	Join(dbc dbctx.Context, id int, userID string) error
	Kick(dbc dbctx.Context, id int, callerID, userID string) error
}

type groupService struct {
	db       *gorm.DB
	log      *logger.Logger
	groups   repos.GroupRepo
	channels repos.ChannelRepo
	notify   Notifier
}

func NewGroupService(
	db *gorm.DB,
	baseLog *logger.Logger,
	groupRepo repos.GroupRepo,
	channelRepo repos.ChannelRepo,
	notify Notifier,
) GroupService {
	return &groupService{
		db:       db,
		log:      baseLog.With("service", "GroupService"),
		groups:   groupRepo,
		channels: channelRepo,
		notify:   notify,
	}
}

func (s *groupService) Create(dbc dbctx.Context, in CreateGroupInput) (*types.Group, error) {
	g := &types.Group{
		Name:       in.Name,
		UniqueName: in.UniqueName,
		OwnerID:    in.OwnerID,
		Public:     in.Public,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		ch := &types.MessageChannel{Type: types.ChannelTypeGroup}
		if err := s.channels.Create(txc, ch); err != nil {
			return err
		}
		g.ChannelID = ch.ID
		if err := s.groups.Create(txc, g); err != nil {
			return err
		}
		return s.groups.AddMember(txc, g.ID, in.OwnerID)
	})
	if err != nil {
		return nil, err
	}
	s.notify.GroupCreated(in.OwnerID, g)
	return g, nil
}

func (s *groupService) Get(dbc dbctx.Context, id int) (*types.Group, error) {
	return s.groups.GetByID(dbc, id)
}

func (s *groupService) Update(dbc dbctx.Context, id int, callerID string, in UpdateGroupInput) (*types.Group, error) {
	g, err := s.owned(dbc, id, callerID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		g.Name = *in.Name
	}
	if in.IconHash != nil {
		g.IconHash = in.IconHash
	}
	if in.Public != nil {
		g.Public = *in.Public
	}
	if err := s.groups.Update(dbc, g); err != nil {
		return nil, err
	}
	s.notify.GroupUpdated(g)
	return g, nil
}

func (s *groupService) Delete(dbc dbctx.Context, id int, callerID string) error {
	g, err := s.owned(dbc, id, callerID)
	if err != nil {
		return err
	}
	memberIDs, err := s.groups.ListMemberIDs(dbc, id)
	if err != nil {
		return err
	}
	if err := s.groups.Delete(dbc, id); err != nil {
		return err
	}
	// group_deleted on the shared topic, group_removed per member so
	// sidebars update even for members not viewing the group.
	s.notify.GroupDeleted(g.ID)
	for _, uid := range memberIDs {
		s.notify.GroupRemoved(uid, g.ID)
	}
	return nil
}

func (s *groupService) Join(dbc dbctx.Context, id int, userID string) error {
	g, err := s.groups.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if err := s.groups.AddMember(dbc, id, userID); err != nil {
		return err
	}
	s.notify.GroupCreated(userID, g)
	return nil
}

func (s *groupService) Kick(dbc dbctx.Context, id int, callerID, userID string) error {
	if _, err := s.owned(dbc, id, callerID); err != nil {
		return err
	}
	if err := s.groups.RemoveMember(dbc, id, userID); err != nil {
		return err
	}
	s.notify.GroupRemoved(userID, id)
	return nil
}

func (s *groupService) owned(dbc dbctx.Context, id int, callerID string) (*types.Group, error) {
	g, err := s.groups.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != callerID {
		return nil, types.ErrNotOwner
	}
	return g, nil
}
