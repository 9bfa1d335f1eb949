package memory

import (
	"context"
	"sync"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
)

// maxStoredMessages caps per-room history so a long-lived room does not
// grow without bound.
const maxStoredMessages = 500

type MessageRepository struct {
	byRoom map[domain.RoomID][]*domain.ChatMessage
	mu     sync.RWMutex
}

func NewMessageRepository() ports.MessageRepository {
	return &MessageRepository{
		byRoom: make(map[domain.RoomID][]*domain.ChatMessage),
	}
}

func (r *MessageRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := *msg
	msgs := append(r.byRoom[msg.RoomID], &m)
	if len(msgs) > maxStoredMessages {
		msgs = msgs[len(msgs)-maxStoredMessages:]
	}
	r.byRoom[msg.RoomID] = msgs
	return nil
}

func (r *MessageRepository) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]*domain.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.byRoom[roomID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}
