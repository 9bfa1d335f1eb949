package services

import (
	"context"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/pkg/utils"

	"go.uber.org/zap"
)

type chatService struct {
	registry ports.PresenceRegistry
	messages ports.MessageRepository
	sink     ports.EventSink
	logger   *zap.SugaredLogger
}

func NewChatService(registry ports.PresenceRegistry, messages ports.MessageRepository, sink ports.EventSink, logger *zap.SugaredLogger) ports.ChatService {
	return &chatService{
		registry: registry,
		messages: messages,
		sink:     sink,
		logger:   logger,
	}
}

// SendMessage assigns the message id and timestamp, then broadcasts to
// the whole room including the sender, so the sender's UI renders from
// the same authoritative event as everyone else's.
func (s *chatService) SendMessage(ctx context.Context, connID domain.ConnID, p domain.SendMessagePayload) {
	msg := &domain.ChatMessage{
		ID:       utils.NewMessageID(),
		RoomID:   p.RoomID,
		UserID:   p.UserID,
		UserName: p.UserName,
		Content:  p.Content,
		Time:     time.Now().UTC(),
	}

	members := s.registry.ListRoom(p.RoomID)
	s.sink.Deliver(domain.Event{
		Type: domain.EventReceiveMessage,
		Payload: domain.ReceiveMessagePayload{
			ID:       msg.ID,
			UserID:   msg.UserID,
			UserName: msg.UserName,
			Content:  msg.Content,
			Time:     msg.Time.Format(time.RFC3339),
		},
	}, recipientIDs(members))

	// Best-effort persistence: the relay is at-most-once and does not
	// reconcile with the store.
	if err := s.messages.Append(ctx, msg); err != nil {
		s.logger.Warnw("chat message not persisted",
			"room_id", p.RoomID,
			"message_id", msg.ID,
			"error", err,
		)
	}
}

// Typing is a pure relay: no server-side debounce or dedup, the client
// owns the 1.5s typing timer.
func (s *chatService) Typing(connID domain.ConnID, p domain.TypingPayload) {
	members := s.registry.ListRoom(p.RoomID)
	s.sink.Deliver(domain.Event{
		Type:    domain.EventTyping,
		Payload: domain.TypingNoticePayload{UserName: p.UserName},
	}, recipientIDsExcept(members, connID))
}

func (s *chatService) StopTyping(connID domain.ConnID, p domain.StopTypingPayload) {
	members := s.registry.ListRoom(p.RoomID)
	s.sink.Deliver(domain.Event{Type: domain.EventStopTyping}, recipientIDsExcept(members, connID))
}
