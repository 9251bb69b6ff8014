package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	repos "github.com/issam-seghir/shark-chat-backend/internal/data/repos/chat"
	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/apierr"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/topic"
)

type ChannelService interface {
	// DMChannel resolves the one channel shared by the caller and
	// another user, creating it on first contact.
	DMChannel(dbc dbctx.Context, userID, otherID string) (*types.MessageChannel, error)
	Get(dbc dbctx.Context, id string) (*types.MessageChannel, error)
	// Typing announces the user is typing on a channel. Purely
	// ephemeral; nothing is stored.
	Typing(dbc dbctx.Context, channelID, userID string) error
}

type channelService struct {
	db       *gorm.DB
	log      *logger.Logger
	channels repos.ChannelRepo
	groups   repos.GroupRepo
	users    repos.UserRepo
	notify   Notifier
}

func NewChannelService(
	db *gorm.DB,
	baseLog *logger.Logger,
	channelRepo repos.ChannelRepo,
	groupRepo repos.GroupRepo,
	userRepo repos.UserRepo,
	notify Notifier,
) ChannelService {
	return &channelService{
		db:       db,
		log:      baseLog.With("service", "ChannelService"),
		channels: channelRepo,
		groups:   groupRepo,
		users:    userRepo,
		notify:   notify,
	}
}

func (s *channelService) DMChannel(dbc dbctx.Context, userID, otherID string) (*types.MessageChannel, error) {
	if userID == otherID {
		return nil, apierr.New(http.StatusBadRequest, "bad_request", errors.New("cannot open a dm with yourself"))
	}
	if _, err := s.users.GetByID(dbc, otherID); err != nil {
		return nil, err
	}
	return s.channels.GetOrCreateDM(dbc, userID, otherID)
}

func (s *channelService) Get(dbc dbctx.Context, id string) (*types.MessageChannel, error) {
	return s.channels.GetByID(dbc, id)
}

func (s *channelService) Typing(dbc dbctx.Context, channelID, userID string) error {
	user, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return err
	}
	ch, err := s.channels.GetByID(dbc, channelID)
	if err != nil {
		return err
	}
	switch ch.Type {
	case types.ChannelTypeGroup:
		group, err := s.groups.GetByChannelID(dbc, ch.ID)
		if err != nil {
			return err
		}
		s.notify.Typing(events.FamilyChat, topic.ForGroup(group.ID), user.Info())
	case types.ChannelTypeDM:
		pair, err := s.channels.GetDMPair(dbc, ch.ID)
		if err != nil {
			return err
		}
		s.notify.Typing(events.FamilyDM, topic.ForDM(pair.UserA, pair.UserB), user.Info())
	}
	return nil
}
