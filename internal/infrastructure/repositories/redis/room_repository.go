package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RoomRepository struct {
	client *redis.Client
	prefix string
}

func NewRoomRepository(client *redis.Client) ports.RoomRepository {
	return &RoomRepository{
		client: client,
		prefix: "togetherwatch:room:",
	}
}

func (r *RoomRepository) roomKey(id domain.RoomID) string {
	return r.prefix + string(id)
}

func (r *RoomRepository) inviteKey(code string) string {
	return r.prefix + "invite:" + code
}

func (r *RoomRepository) membersKey(id domain.RoomID) string {
	return r.prefix + string(id) + ":members"
}

func (r *RoomRepository) userRoomsKey(userID domain.UserID) string {
	return "togetherwatch:user:" + string(userID) + ":rooms"
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.roomKey(room.ID), data, 0)
	pipe.Set(ctx, r.inviteKey(room.InviteCode), string(room.ID), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store room in Redis: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	data, err := r.client.Get(ctx, r.roomKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room from Redis: %w", err)
	}

	var room domain.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Room, error) {
	roomID, err := r.client.Get(ctx, r.inviteKey(code)).Result()
	if err == redis.Nil {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}
	return r.GetByID(ctx, domain.RoomID(roomID))
}

func (r *RoomRepository) AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	if _, err := r.GetByID(ctx, roomID); err != nil {
		return err
	}

	membership := domain.RoomMembership{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(membership)
	if err != nil {
		return fmt.Errorf("failed to marshal membership: %w", err)
	}

	// HSetNX keeps the original join time on repeat joins.
	pipe := r.client.Pipeline()
	pipe.HSetNX(ctx, r.membersKey(roomID), string(userID), data)
	pipe.SAdd(ctx, r.userRoomsKey(userID), string(roomID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add member in Redis: %w", err)
	}
	return nil
}

func (r *RoomRepository) IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error) {
	exists, err := r.client.HExists(ctx, r.membersKey(roomID), string(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

func (r *RoomRepository) ListMembers(ctx context.Context, roomID domain.RoomID) ([]domain.RoomMembership, error) {
	rows, err := r.client.HGetAll(ctx, r.membersKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]domain.RoomMembership, 0, len(rows))
	for _, raw := range rows {
		var m domain.RoomMembership
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal membership: %w", err)
		}
		members = append(members, m)
	}
	// Hash iteration order is arbitrary; restore join order.
	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (r *RoomRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Room, error) {
	roomIDs, err := r.client.SMembers(ctx, r.userRoomsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms for user: %w", err)
	}

	rooms := make([]*domain.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		room, err := r.GetByID(ctx, domain.RoomID(id))
		if err == domain.ErrRoomNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
