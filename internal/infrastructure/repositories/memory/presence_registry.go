package memory

import (
	"sync"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
)

// PresenceRegistry is the in-memory room-to-connections map. All state
// lives for the process lifetime only; reconnecting clients rebuild it.
type PresenceRegistry struct {
	rooms map[domain.RoomID][]domain.Member
	conns map[domain.ConnID]domain.RoomID
	mu    sync.RWMutex
}

func NewPresenceRegistry() ports.PresenceRegistry {
	return &PresenceRegistry{
		rooms: make(map[domain.RoomID][]domain.Member),
		conns: make(map[domain.ConnID]domain.RoomID),
	}
}

func (r *PresenceRegistry) Join(roomID domain.RoomID, connID domain.ConnID, userID domain.UserID, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A reconnecting user supersedes their stale entry. The stale
	// connection is unbound so its later disconnect cannot evict the
	// fresh entry.
	members := r.rooms[roomID]
	kept := members[:0]
	for _, m := range members {
		if m.UserID == userID {
			delete(r.conns, m.ConnID)
			continue
		}
		kept = append(kept, m)
	}

	r.rooms[roomID] = append(kept, domain.Member{ConnID: connID, UserID: userID, UserName: userName})
	r.conns[connID] = roomID
}

func (r *PresenceRegistry) Leave(connID domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, bound := r.conns[connID]
	if !bound {
		return
	}
	delete(r.conns, connID)

	members := r.rooms[roomID]
	kept := members[:0]
	for _, m := range members {
		if m.ConnID != connID {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(r.rooms, roomID)
		return
	}
	r.rooms[roomID] = kept
}

func (r *PresenceRegistry) ListRoom(roomID domain.RoomID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]domain.Member, len(r.rooms[roomID]))
	copy(members, r.rooms[roomID])
	return members
}

func (r *PresenceRegistry) RoomOf(connID domain.ConnID) (domain.RoomID, domain.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, bound := r.conns[connID]
	if !bound {
		return "", domain.Member{}, false
	}
	for _, m := range r.rooms[roomID] {
		if m.ConnID == connID {
			return roomID, m, true
		}
	}
	return "", domain.Member{}, false
}
