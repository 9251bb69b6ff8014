package services

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	repos "github.com/issam-seghir/shark-chat-backend/internal/data/repos/chat"
	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

// urlPattern matches every http(s) URL run in message content. The match
// is greedy up to whitespace; trailing punctuation stays part of the URL.
var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// maxConcurrentUnfurls bounds how many link previews are fetched at
// once. Every URL in the content is attempted.
const maxConcurrentUnfurls = 3

type CreateMessageInput struct {
	ChannelID  string
	AuthorID   string
	Content    string
	Attachment *types.UploadAttachment
	ReplyID    *int
	Nonce      *int64
}

type MessageService interface {
	// Create runs the full send pipeline: validate, persist attachment
	// and message, unfurl links, then publish message_sent to the
	// channel's topic. The returned message is the joined row, exactly
	// what subscribers receive.
	Create(dbc dbctx.Context, in CreateMessageInput) (*types.MessageWithRefs, error)
	// List pages a channel's history newest-first. after and before are
	// exclusive message-id cursors. A nonexistent or empty channel is an
	// empty sequence, not an error.
	List(dbc dbctx.Context, channelID string, count int, after, before *int) ([]*types.MessageWithRefs, error)
	Update(dbc dbctx.Context, id int, authorID, content string) error
	Delete(dbc dbctx.Context, id int, authorID string) error
}

type messageService struct {
	db       *gorm.DB
	log      *logger.Logger
	messages repos.MessageRepo
	channels repos.ChannelRepo
	groups   repos.GroupRepo
	users    repos.UserRepo
	atts     repos.AttachmentRepo
	unfurl   LinkPreviewer
	notify   Notifier
}

func NewMessageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	messageRepo repos.MessageRepo,
	channelRepo repos.ChannelRepo,
	groupRepo repos.GroupRepo,
	userRepo repos.UserRepo,
	attachmentRepo repos.AttachmentRepo,
	unfurl LinkPreviewer,
	notify Notifier,
) MessageService {
	return &messageService{
		db:       db,
		log:      baseLog.With("service", "MessageService"),
		messages: messageRepo,
		channels: channelRepo,
		groups:   groupRepo,
		users:    userRepo,
		atts:     attachmentRepo,
		unfurl:   unfurl,
		notify:   notify,
	}
}

func (s *messageService) Create(dbc dbctx.Context, in CreateMessageInput) (*types.MessageWithRefs, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.Attachment == nil {
		return nil, types.ErrEmptyMessage
	}
	// The limit counts characters, not bytes.
	if utf8.RuneCountInString(content) > types.MaxContentLength {
		return nil, types.ErrContentTooLong
	}
	if _, err := s.channels.GetByID(dbc, in.ChannelID); err != nil {
		return nil, err
	}

	// Unfurling happens before the insert so the stored row already
	// carries its embeds; a failed preview only loses the embed.
	embedsRaw := s.resolveEmbeds(dbc, content)

	msg := &types.Message{
		ChannelID: in.ChannelID,
		AuthorID:  in.AuthorID,
		Content:   content,
		ReplyID:   in.ReplyID,
		EmbedsRaw: embedsRaw,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if in.Attachment != nil {
			att := &types.Attachment{
				ID:     uuid.NewString(),
				Name:   in.Attachment.Name,
				URL:    in.Attachment.URL,
				Type:   in.Attachment.Type,
				Bytes:  in.Attachment.Bytes,
				Width:  in.Attachment.Width,
				Height: in.Attachment.Height,
			}
			if err := s.atts.Create(txc, att); err != nil {
				return err
			}
			msg.AttachmentID = &att.ID
		}
		return s.messages.Create(txc, msg)
	})
	if err != nil {
		return nil, err
	}

	joined, err := s.messages.GetJoined(dbc, msg.ID)
	if err != nil {
		return nil, err
	}

	if err := s.channels.SetLastMessage(dbc, in.ChannelID, msg.ID); err != nil {
		s.log.Warn("update last message pointer", "channel_id", in.ChannelID, "error", err)
	}

	s.publishSent(dbc, joined, in.Nonce)
	return joined, nil
}

// resolveEmbeds unfurls every link in the content concurrently, keeping
// embeds in the order their URLs appear. Returns nil when no link
// yields a preview.
func (s *messageService) resolveEmbeds(dbc dbctx.Context, content string) datatypes.JSON {
	if s.unfurl == nil {
		return nil
	}
	urls := urlPattern.FindAllString(content, -1)
	if len(urls) == 0 {
		return nil
	}

	found := make([]*types.Embed, len(urls))
	g, ctx := errgroup.WithContext(dbc.Ctx)
	g.SetLimit(maxConcurrentUnfurls)
	for i, u := range urls {
		g.Go(func() error {
			embed, err := s.unfurl.Preview(ctx, u)
			if err != nil {
				s.log.Debug("unfurl failed", "url", u, "error", err)
				return nil
			}
			found[i] = embed
			return nil
		})
	}
	_ = g.Wait()

	embeds := make([]types.Embed, 0, len(found))
	for _, e := range found {
		if e != nil {
			embeds = append(embeds, *e)
		}
	}
	if len(embeds) == 0 {
		return nil
	}
	raw, err := json.Marshal(embeds)
	if err != nil {
		s.log.Warn("marshal embeds", "error", err)
		return nil
	}
	return raw
}

// publishSent routes the persisted message to its topic: group channels
// get a chat-family message_sent, DM channels a private-family
// message_sent to both ends of the pair.
func (s *messageService) publishSent(dbc dbctx.Context, m *types.MessageWithRefs, nonce *int64) {
	ch, err := s.channels.GetByID(dbc, m.ChannelID)
	if err != nil {
		s.log.Error("route message", "channel_id", m.ChannelID, "error", err)
		return
	}
	switch ch.Type {
	case types.ChannelTypeGroup:
		group, err := s.groups.GetByChannelID(dbc, ch.ID)
		if err != nil {
			s.log.Error("route group message", "channel_id", ch.ID, "error", err)
			return
		}
		s.notify.MessageSent(group.ID, &events.MessageSent{MessageWithRefs: *m, Nonce: nonce})
	case types.ChannelTypeDM:
		pair, err := s.channels.GetDMPair(dbc, ch.ID)
		if err != nil {
			s.log.Error("route dm message", "channel_id", ch.ID, "error", err)
			return
		}
		receiverID := pair.UserA
		if receiverID == m.AuthorID {
			receiverID = pair.UserB
		}
		receiver, err := s.users.GetByID(dbc, receiverID)
		if err != nil {
			s.log.Error("load dm receiver", "user_id", receiverID, "error", err)
			return
		}
		ev := &events.DirectMessageSent{MessageWithRefs: *m, Receiver: receiver.Info(), Nonce: nonce}
		s.notify.DirectMessageSent(receiverID, ev)
		s.notify.DirectMessageSent(m.AuthorID, ev)
	}
}

func (s *messageService) List(dbc dbctx.Context, channelID string, count int, after, before *int) ([]*types.MessageWithRefs, error) {
	return s.messages.List(dbc, channelID, count, after, before)
}

func (s *messageService) Update(dbc dbctx.Context, id int, authorID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return types.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > types.MaxContentLength {
		return types.ErrContentTooLong
	}
	m, err := s.authored(dbc, id, authorID)
	if err != nil {
		return err
	}
	if err := s.messages.UpdateContent(dbc, id, content); err != nil {
		return err
	}

	ch, err := s.channels.GetByID(dbc, m.ChannelID)
	if err != nil {
		return err
	}
	switch ch.Type {
	case types.ChannelTypeGroup:
		group, err := s.groups.GetByChannelID(dbc, ch.ID)
		if err != nil {
			return err
		}
		s.notify.ChatMessageUpdated(group.ID, &events.ChatMessageUpdated{ID: id, GroupID: group.ID, Content: content})
	case types.ChannelTypeDM:
		pair, err := s.channels.GetDMPair(dbc, ch.ID)
		if err != nil {
			return err
		}
		receiverID := pair.UserA
		if receiverID == authorID {
			receiverID = pair.UserB
		}
		s.notify.DMMessageUpdated(&events.DMMessageUpdated{ID: id, AuthorID: authorID, ReceiverID: receiverID, Content: content})
	}
	return nil
}

func (s *messageService) Delete(dbc dbctx.Context, id int, authorID string) error {
	m, err := s.authored(dbc, id, authorID)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(dbc, id); err != nil {
		return err
	}

	ch, err := s.channels.GetByID(dbc, m.ChannelID)
	if err != nil {
		return err
	}
	switch ch.Type {
	case types.ChannelTypeGroup:
		group, err := s.groups.GetByChannelID(dbc, ch.ID)
		if err != nil {
			return err
		}
		s.notify.ChatMessageDeleted(group.ID, &events.ChatMessageDeleted{ID: id, GroupID: group.ID})
	case types.ChannelTypeDM:
		pair, err := s.channels.GetDMPair(dbc, ch.ID)
		if err != nil {
			return err
		}
		receiverID := pair.UserA
		if receiverID == authorID {
			receiverID = pair.UserB
		}
		s.notify.DMMessageDeleted(&events.DMMessageDeleted{ID: id, AuthorID: authorID, ReceiverID: receiverID})
	}
	return nil
}

// authored loads a message and checks the caller wrote it.
func (s *messageService) authored(dbc dbctx.Context, id int, authorID string) (*types.MessageWithRefs, error) {
	m, err := s.messages.GetJoined(dbc, id)
	if err != nil {
		return nil, err
	}
	if m.AuthorID != authorID {
		return nil, types.ErrNotAuthor
	}
	return m, nil
}
