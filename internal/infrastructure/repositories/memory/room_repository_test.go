package memory

import (
	"context"
	"testing"
	"time"

	"togetherwatch/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoom(id domain.RoomID, code string) *domain.Room {
	return &domain.Room{
		ID:         id,
		Name:       "Movie Night",
		InviteCode: code,
		CreatedBy:  "alice",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRoomRepository_CreateAndGet(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRoom("r1", "ABC234")))

	byID, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Movie Night", byID.Name)

	byCode, err := repo.GetByInviteCode(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID("r1"), byCode.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = repo.GetByInviteCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepository_Membership(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRoom("r1", "ABC234")))
	require.NoError(t, repo.AddMember(ctx, "r1", "alice"))
	require.NoError(t, repo.AddMember(ctx, "r1", "bob"))

	member, err := repo.IsMember(ctx, "r1", "alice")
	require.NoError(t, err)
	assert.True(t, member)

	member, err = repo.IsMember(ctx, "r1", "stranger")
	require.NoError(t, err)
	assert.False(t, member)

	memberships, err := repo.ListMembers(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, memberships, 2)
}

func TestRoomRepository_AddMemberIsIdempotent(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRoom("r1", "ABC234")))
	require.NoError(t, repo.AddMember(ctx, "r1", "alice"))

	before, err := repo.ListMembers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, before, 1)
	firstJoin := before[0].JoinedAt

	// Rejoining neither duplicates the row nor resets the join time.
	require.NoError(t, repo.AddMember(ctx, "r1", "alice"))

	after, err := repo.ListMembers(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, firstJoin, after[0].JoinedAt)
}

func TestRoomRepository_AddMemberUnknownRoom(t *testing.T) {
	repo := NewRoomRepository()

	err := repo.AddMember(context.Background(), "missing", "alice")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepository_ListForUser(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testRoom("r1", "AAA222")))
	require.NoError(t, repo.Create(ctx, testRoom("r2", "BBB333")))
	require.NoError(t, repo.AddMember(ctx, "r1", "alice"))
	require.NoError(t, repo.AddMember(ctx, "r2", "alice"))
	require.NoError(t, repo.AddMember(ctx, "r2", "bob"))

	aliceRooms, err := repo.ListForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceRooms, 2)

	bobRooms, err := repo.ListForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobRooms, 1)
	assert.Equal(t, domain.RoomID("r2"), bobRooms[0].ID)
}
