package services

import (
	"context"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"

	"go.uber.org/zap"
)

type presenceService struct {
	registry ports.PresenceRegistry
	sink     ports.EventSink
	logger   *zap.SugaredLogger
}

func NewPresenceService(registry ports.PresenceRegistry, sink ports.EventSink, logger *zap.SugaredLogger) ports.PresenceService {
	return &presenceService{
		registry: registry,
		sink:     sink,
		logger:   logger,
	}
}

func (s *presenceService) HandleJoin(ctx context.Context, connID domain.ConnID, p domain.JoinRoomPayload) {
	s.registry.Join(p.RoomID, connID, p.UserID, p.UserName)

	members := s.registry.ListRoom(p.RoomID)

	// Full list to the whole room, joiner included; the joined notice
	// only to the others.
	s.sink.Deliver(domain.Event{Type: domain.EventRoomUsers, Payload: members}, recipientIDs(members))
	s.sink.Deliver(domain.Event{
		Type:    domain.EventUserJoined,
		Payload: domain.UserJoinedPayload{UserName: p.UserName},
	}, recipientIDsExcept(members, connID))

	s.logger.Infow("user joined room",
		"room_id", p.RoomID,
		"user_id", p.UserID,
		"user_name", p.UserName,
		"members", len(members),
	)
}

func (s *presenceService) HandleDisconnect(ctx context.Context, connID domain.ConnID) {
	roomID, member, bound := s.registry.RoomOf(connID)
	if !bound {
		// Disconnect before join, or a stale connection already
		// superseded by a reconnect. Nothing to announce.
		return
	}

	s.registry.Leave(connID)

	remaining := s.registry.ListRoom(roomID)
	s.sink.Deliver(domain.Event{Type: domain.EventRoomUsers, Payload: remaining}, recipientIDs(remaining))
	s.sink.Deliver(domain.Event{
		Type:    domain.EventUserLeft,
		Payload: domain.UserLeftPayload{UserName: member.UserName},
	}, recipientIDs(remaining))

	s.logger.Infow("user left room",
		"room_id", roomID,
		"user_id", member.UserID,
		"user_name", member.UserName,
		"members", len(remaining),
	)
}
