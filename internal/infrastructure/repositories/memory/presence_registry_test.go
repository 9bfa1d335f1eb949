package memory

import (
	"testing"

	"togetherwatch/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceRegistry_JoinAndList(t *testing.T) {
	r := NewPresenceRegistry()

	r.Join("room1", "conn-a", "alice", "Alice")
	r.Join("room1", "conn-b", "bob", "Bob")
	r.Join("room2", "conn-c", "carol", "Carol")

	members := r.ListRoom("room1")
	require.Len(t, members, 2)
	assert.Equal(t, domain.UserID("alice"), members[0].UserID)
	assert.Equal(t, domain.UserID("bob"), members[1].UserID)

	assert.Len(t, r.ListRoom("room2"), 1)
	assert.Empty(t, r.ListRoom("unknown"))
}

func TestPresenceRegistry_ReconnectSupersedes(t *testing.T) {
	r := NewPresenceRegistry()

	r.Join("room1", "conn-old", "alice", "Alice")
	r.Join("room1", "conn-new", "alice", "Alice")

	members := r.ListRoom("room1")
	require.Len(t, members, 1)
	assert.Equal(t, domain.ConnID("conn-new"), members[0].ConnID)

	// The stale connection was unbound: its disconnect must not evict
	// the fresh entry.
	_, _, bound := r.RoomOf("conn-old")
	assert.False(t, bound)

	r.Leave("conn-old")
	require.Len(t, r.ListRoom("room1"), 1)

	_, member, bound := r.RoomOf("conn-new")
	require.True(t, bound)
	assert.Equal(t, domain.UserID("alice"), member.UserID)
}

func TestPresenceRegistry_LeaveIsIdempotent(t *testing.T) {
	r := NewPresenceRegistry()

	r.Join("room1", "conn-a", "alice", "Alice")
	r.Leave("conn-a")
	r.Leave("conn-a")

	assert.Empty(t, r.ListRoom("room1"))
}

func TestPresenceRegistry_EmptyRoomIsRemoved(t *testing.T) {
	r := NewPresenceRegistry()

	r.Join("room1", "conn-a", "alice", "Alice")
	r.Join("room1", "conn-b", "bob", "Bob")
	r.Leave("conn-a")
	r.Leave("conn-b")

	assert.Empty(t, r.ListRoom("room1"))

	// Re-joining a drained room starts clean.
	r.Join("room1", "conn-c", "carol", "Carol")
	members := r.ListRoom("room1")
	require.Len(t, members, 1)
	assert.Equal(t, domain.UserID("carol"), members[0].UserID)
}

func TestPresenceRegistry_RoomOf(t *testing.T) {
	r := NewPresenceRegistry()

	_, _, bound := r.RoomOf("conn-a")
	assert.False(t, bound)

	r.Join("room1", "conn-a", "alice", "Alice")

	roomID, member, bound := r.RoomOf("conn-a")
	require.True(t, bound)
	assert.Equal(t, domain.RoomID("room1"), roomID)
	assert.Equal(t, "Alice", member.UserName)
}

func TestPresenceRegistry_ListReturnsCopy(t *testing.T) {
	r := NewPresenceRegistry()

	r.Join("room1", "conn-a", "alice", "Alice")

	members := r.ListRoom("room1")
	members[0].UserName = "Mallory"

	fresh := r.ListRoom("room1")
	require.Len(t, fresh, 1)
	assert.Equal(t, "Alice", fresh[0].UserName)
}
