package client

import (
	"sync"
	"testing"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

var logOnce sync.Once
var testLog *logger.Logger

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		l, err := logger.New("development")
		if err != nil {
			tb.Fatalf("logger: %v", err)
		}
		testLog = l
	})
	return testLog
}

func sent(channelID string, id int, content string) types.MessageWithRefs {
	return types.MessageWithRefs{
		Message: types.Message{ID: id, ChannelID: channelID, AuthorID: "u1", Content: content},
		Author:  types.UserInfo{ID: "u1", Name: "Alice"},
	}
}

func TestPendingConfirmedByNonce(t *testing.T) {
	s := NewStore(testLogger(t))
	s.AddPending("ch", "hello", "u1", 41)
	s.AddPending("ch", "world", "u1", 42)

	nonce := int64(41)
	s.ApplyMessageSent(sent("ch", 10, "hello"), &nonce)

	got := s.Messages("ch")
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	// Confirmed entry keeps its position and takes the server row.
	if got[0].Pending || got[0].Message.ID != 10 {
		t.Fatalf("entry 0 = %+v", got[0])
	}
	if !got[1].Pending {
		t.Fatalf("entry 1 lost pending state: %+v", got[1])
	}
}

func TestApplyMessageSentIdempotent(t *testing.T) {
	s := NewStore(testLogger(t))
	m := sent("ch", 10, "hello")
	s.ApplyMessageSent(m, nil)
	s.ApplyMessageSent(m, nil)

	if got := s.Messages("ch"); len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
}

func TestNonceReconciliationYieldsSingleEntry(t *testing.T) {
	s := NewStore(testLogger(t))
	s.AddPending("ch", "hello", "u1", 7)

	nonce := int64(7)
	m := sent("ch", 33, "hello")
	// The echo can race a history reload; both paths must converge on
	// one confirmed entry.
	s.ApplyMessageSent(m, &nonce)
	s.ApplyMessageSent(m, &nonce)

	got := s.Messages("ch")
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].Pending || got[0].Message.ID != 33 {
		t.Fatalf("entry = %+v", got[0])
	}
}

func TestRollbackPendingRemovesOnlyThatSend(t *testing.T) {
	s := NewStore(testLogger(t))
	s.AddPending("ch", "a", "u1", 1)
	s.AddPending("ch", "b", "u1", 2)

	s.RollbackPending("ch", 1)

	got := s.Messages("ch")
	if len(got) != 1 || got[0].Message.Content != "b" {
		t.Fatalf("entries = %+v", got)
	}
}

func TestUpdateAndDeleteUnknownIDNoOp(t *testing.T) {
	s := NewStore(testLogger(t))
	s.ApplyMessageSent(sent("ch", 10, "hello"), nil)

	s.ApplyMessageUpdated("ch", 999, "nope")
	s.ApplyMessageDeleted("ch", 999)

	got := s.Messages("ch")
	if len(got) != 1 || got[0].Message.Content != "hello" {
		t.Fatalf("entries = %+v", got)
	}

	s.ApplyMessageUpdated("ch", 10, "edited")
	if got := s.Messages("ch"); got[0].Message.Content != "edited" {
		t.Fatalf("content = %q", got[0].Message.Content)
	}
	s.ApplyMessageDeleted("ch", 10)
	if got := s.Messages("ch"); len(got) != 0 {
		t.Fatalf("entries = %+v, want none", got)
	}
}

func TestGroupDeletedRedirectsActiveView(t *testing.T) {
	s := NewStore(testLogger(t))
	g := types.Group{ID: 5, Name: "room", ChannelID: "ch", OwnerID: "u1"}
	s.ApplyGroupCreated(g)
	s.ApplyMessageSent(sent("ch", 10, "hello"), nil)

	var redirected []int
	s.SetActiveGroup(5, func(groupID int) { redirected = append(redirected, groupID) })

	s.ApplyGroupDeleted(5)
	s.ApplyGroupDeleted(5)

	if len(redirected) != 1 || redirected[0] != 5 {
		t.Fatalf("redirects = %v, want exactly one for group 5", redirected)
	}
	if len(s.Groups()) != 0 {
		t.Fatalf("groups = %+v, want none", s.Groups())
	}
	if got := s.Messages("ch"); len(got) != 0 {
		t.Fatalf("channel state survived delete: %+v", got)
	}
}

func TestGroupDeletedInactiveViewNoRedirect(t *testing.T) {
	s := NewStore(testLogger(t))
	s.ApplyGroupCreated(types.Group{ID: 5, ChannelID: "ch"})
	s.SetActiveGroup(6, func(int) { t.Fatal("redirect fired for inactive group") })

	s.ApplyGroupDeleted(5)
}

func TestGroupUpdatedMergesKnownOnly(t *testing.T) {
	s := NewStore(testLogger(t))
	s.ApplyGroupCreated(types.Group{ID: 5, Name: "before", ChannelID: "ch"})

	s.ApplyGroupUpdated(types.Group{ID: 5, Name: "after", ChannelID: "ch"})
	s.ApplyGroupUpdated(types.Group{ID: 99, Name: "ghost"})

	groups := s.Groups()
	if len(groups) != 1 || groups[0].Name != "after" {
		t.Fatalf("groups = %+v", groups)
	}
}
