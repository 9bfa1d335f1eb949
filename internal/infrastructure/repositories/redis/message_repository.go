package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// maxStoredMessages caps per-room history in Redis.
const maxStoredMessages = 500

type MessageRepository struct {
	client *redis.Client
	prefix string
}

func NewMessageRepository(client *redis.Client) ports.MessageRepository {
	return &MessageRepository{
		client: client,
		prefix: "togetherwatch:messages:",
	}
}

func (r *MessageRepository) roomKey(roomID domain.RoomID) string {
	return r.prefix + string(roomID)
}

func (r *MessageRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := r.roomKey(msg.RoomID)
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxStoredMessages-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append message in Redis: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > maxStoredMessages {
		limit = maxStoredMessages
	}

	rows, err := r.client.LRange(ctx, r.roomKey(roomID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from Redis: %w", err)
	}

	// LPUSH stores newest first; return oldest first.
	msgs := make([]*domain.ChatMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(rows[i]), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}
