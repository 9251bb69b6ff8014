package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
)

func SeedUser(tb testing.TB, ctx context.Context, db *gorm.DB, id, name string) *chat.User {
	tb.Helper()
	u := &chat.User{ID: id, Name: name}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedChannel(tb testing.TB, ctx context.Context, db *gorm.DB, chType string) *chat.MessageChannel {
	tb.Helper()
	ch := &chat.MessageChannel{ID: uuid.NewString(), Type: chType}
	if err := db.WithContext(ctx).Create(ch).Error; err != nil {
		tb.Fatalf("seed channel: %v", err)
	}
	return ch
}

func SeedGroup(tb testing.TB, ctx context.Context, db *gorm.DB, ownerID, channelID string) *chat.Group {
	tb.Helper()
	g := &chat.Group{
		Name:       "group",
		UniqueName: uuid.NewString()[:8],
		OwnerID:    ownerID,
		ChannelID:  channelID,
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}
