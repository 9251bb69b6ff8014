package services

import (
	"context"
	"errors"
	"testing"

	"github.com/issam-seghir/shark-chat-backend/internal/data/repos/testutil"
	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/events"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/topic"
)

func TestGroupDeletePublishesToTopicAndMembers(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedUser(t, ctx, fx.db, "owner", "Owner")
	testutil.SeedUser(t, ctx, fx.db, "member", "Member")

	group, err := fx.groups.Create(dbc, CreateGroupInput{Name: "room", UniqueName: "doomed", OwnerID: "owner"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := fx.groups.Join(dbc, group.ID, "member"); err != nil {
		t.Fatalf("join: %v", err)
	}

	topicRec := &recorder{}
	memberRec := &recorder{}
	subT, err := fx.bus.Subscribe(ctx, topic.ForGroup(group.ID), topicRec.handler)
	if err != nil {
		t.Fatalf("subscribe topic: %v", err)
	}
	defer subT.Unsubscribe(ctx)
	subM, err := fx.bus.Subscribe(ctx, topic.ForUser("member"), memberRec.handler)
	if err != nil {
		t.Fatalf("subscribe member: %v", err)
	}
	defer subM.Unsubscribe(ctx)

	if err := fx.groups.Delete(dbc, group.ID, "member"); !errors.Is(err, types.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := fx.groups.Delete(dbc, group.ID, "owner"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := topicRec.all()
	if len(got) != 1 || got[0].Event != string(events.EventGroupDeleted) {
		t.Fatalf("group topic got %+v", got)
	}
	decoded, err := events.Decode(events.FamilyChat, events.EventGroupDeleted, got[0].Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.(events.GroupID).ID != group.ID {
		t.Fatalf("payload = %+v", decoded)
	}

	mgot := memberRec.all()
	if len(mgot) != 1 || mgot[0].Event != string(events.EventGroupRemoved) {
		t.Fatalf("member topic got %+v", mgot)
	}

	if _, err := fx.groups.Get(dbc, group.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestGroupUpdatePublishesRecord(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedUser(t, ctx, fx.db, "owner", "Owner")
	group, err := fx.groups.Create(dbc, CreateGroupInput{Name: "before", UniqueName: "renamed", OwnerID: "owner"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	rec := &recorder{}
	sub, err := fx.bus.Subscribe(ctx, topic.ForGroup(group.ID), rec.handler)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe(ctx)

	name := "after"
	updated, err := fx.groups.Update(dbc, group.ID, "owner", UpdateGroupInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "after" {
		t.Fatalf("name = %q", updated.Name)
	}

	got := rec.all()
	if len(got) != 1 || got[0].Event != string(events.EventGroupUpdated) {
		t.Fatalf("published %+v", got)
	}
	decoded, err := events.Decode(events.FamilyChat, events.EventGroupUpdated, got[0].Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec := decoded.(events.GroupRecord); rec.Name != "after" {
		t.Fatalf("record = %+v", rec)
	}
}
