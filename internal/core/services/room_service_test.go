package services

import (
	"context"
	"testing"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/internal/infrastructure/repositories/memory"
	"togetherwatch/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomFixture struct {
	users    ports.UserRepository
	rooms    ports.RoomRepository
	messages ports.MessageRepository
	videos   ports.VideoRepository
	svc      ports.RoomService
}

func newRoomFixture() *roomFixture {
	f := &roomFixture{
		users:    memory.NewUserRepository(),
		rooms:    memory.NewRoomRepository(),
		messages: memory.NewMessageRepository(),
		videos:   memory.NewVideoRepository(),
	}
	f.svc = NewRoomService(f.rooms, f.users, f.messages, f.videos, testLogger())
	return f
}

func TestRoomService_CreateRoom(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	room, err := f.svc.CreateRoom(ctx, "alice", "  Movie Night  ")
	require.NoError(t, err)
	assert.Equal(t, "Movie Night", room.Name)
	assert.Equal(t, domain.UserID("alice"), room.CreatedBy)
	assert.NoError(t, validation.ValidateInviteCode(room.InviteCode))

	// The creator is a member from the start.
	member, err := f.rooms.IsMember(ctx, room.ID, "alice")
	require.NoError(t, err)
	assert.True(t, member)
}

func TestRoomService_JoinByInvite(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	room, err := f.svc.CreateRoom(ctx, "alice", "Movie Night")
	require.NoError(t, err)

	// Case and surrounding whitespace in the code are forgiven.
	joined, err := f.svc.JoinByInvite(ctx, "bob", "  "+room.InviteCode+"  ")
	require.NoError(t, err)
	assert.Equal(t, room.ID, joined.ID)

	member, err := f.rooms.IsMember(ctx, room.ID, "bob")
	require.NoError(t, err)
	assert.True(t, member)

	// Joining twice is a no-op, not an error.
	_, err = f.svc.JoinByInvite(ctx, "bob", room.InviteCode)
	assert.NoError(t, err)

	memberships, err := f.rooms.ListMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, memberships, 2)
}

func TestRoomService_JoinByInviteUnknownCode(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	_, err := f.svc.JoinByInvite(ctx, "bob", "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomService_ListForUser(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	r1, err := f.svc.CreateRoom(ctx, "alice", "First")
	require.NoError(t, err)
	_, err = f.svc.CreateRoom(ctx, "bob", "Second")
	require.NoError(t, err)

	rooms, err := f.svc.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r1.ID, rooms[0].ID)
}

func TestRoomService_GetRoomDetailRequiresMembership(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	room, err := f.svc.CreateRoom(ctx, "alice", "Movie Night")
	require.NoError(t, err)

	_, err = f.svc.GetRoomDetail(ctx, room.ID, "stranger")
	assert.ErrorIs(t, err, domain.ErrNotRoomMember)
}

func TestRoomService_GetRoomDetailAggregates(t *testing.T) {
	f := newRoomFixture()
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &domain.User{
		ID: "alice", Name: "Alice", Email: "alice@example.com", AvatarColor: "#e8a598",
	}))

	room, err := f.svc.CreateRoom(ctx, "alice", "Movie Night")
	require.NoError(t, err)

	require.NoError(t, f.messages.Append(ctx, &domain.ChatMessage{
		ID: "m1", RoomID: room.ID, UserID: "alice", UserName: "Alice",
		Content: "hello", Time: time.Now().UTC(),
	}))
	require.NoError(t, f.videos.Create(ctx, &domain.Video{
		ID: "v1", RoomID: room.ID, UploadedBy: "alice",
		Title: "Feature", Filename: "feature.mp4", FileSize: 1024,
		CreatedAt: time.Now().UTC(),
	}))

	detail, err := f.svc.GetRoomDetail(ctx, room.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, room.ID, detail.Room.ID)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "Alice", detail.Members[0].Name)
	assert.Equal(t, "#e8a598", detail.Members[0].AvatarColor)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "hello", detail.Messages[0].Content)
	require.Len(t, detail.Videos, 1)
	assert.Equal(t, "Feature", detail.Videos[0].Title)
}
