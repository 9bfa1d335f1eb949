package memory

import (
	"context"
	"sync"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
)

type RoomRepository struct {
	rooms    map[domain.RoomID]*domain.Room
	byInvite map[string]domain.RoomID
	members  map[domain.RoomID][]domain.RoomMembership
	mu       sync.RWMutex
}

func NewRoomRepository() ports.RoomRepository {
	return &RoomRepository{
		rooms:    make(map[domain.RoomID]*domain.Room),
		byInvite: make(map[string]domain.RoomID),
		members:  make(map[domain.RoomID][]domain.RoomMembership),
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm := *room
	r.rooms[room.ID] = &rm
	r.byInvite[room.InviteCode] = room.ID
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	rm := *room
	return &rm, nil
}

func (r *RoomRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byInvite[code]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	rm := *r.rooms[id]
	return &rm, nil
}

func (r *RoomRepository) AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; !exists {
		return domain.ErrRoomNotFound
	}
	for _, m := range r.members[roomID] {
		if m.UserID == userID {
			return nil
		}
	}
	r.members[roomID] = append(r.members[roomID], domain.RoomMembership{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	})
	return nil
}

func (r *RoomRepository) IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members[roomID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *RoomRepository) ListMembers(ctx context.Context, roomID domain.RoomID) ([]domain.RoomMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]domain.RoomMembership, len(r.members[roomID]))
	copy(members, r.members[roomID])
	return members, nil
}

func (r *RoomRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rooms []*domain.Room
	for roomID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				rm := *r.rooms[roomID]
				rooms = append(rooms, &rm)
				break
			}
		}
	}
	return rooms, nil
}
