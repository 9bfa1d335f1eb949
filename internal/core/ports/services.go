package ports

import (
	"context"

	"togetherwatch/internal/core/domain"
)

// EventSink delivers one outbound event to a set of connections. The
// gateway implements it over the live transport; tests substitute a
// recording fake. Delivery is fire-and-forget: a dead or backed-up
// recipient is skipped, never retried.
type EventSink interface {
	Deliver(event domain.Event, recipients []domain.ConnID)
}

// PresenceService turns registry mutations into room-wide notifications.
type PresenceService interface {
	HandleJoin(ctx context.Context, connID domain.ConnID, p domain.JoinRoomPayload)
	HandleDisconnect(ctx context.Context, connID domain.ConnID)
}

// PlaybackService relays playback control events to the rest of the
// room. It is deliberately not authoritative: the sender's clock is the
// source of truth and the server adds no interpretation.
type PlaybackService interface {
	Play(connID domain.ConnID, p domain.PlaybackPayload)
	Pause(connID domain.ConnID, p domain.PlaybackPayload)
	Seek(connID domain.ConnID, p domain.PlaybackPayload)
	ChangeVideo(connID domain.ConnID, p domain.VideoChangePayload)
	// RoomState reports the last observed playback command for the room.
	RoomState(roomID domain.RoomID) (domain.PlaybackState, bool)
}

type ChatService interface {
	SendMessage(ctx context.Context, connID domain.ConnID, p domain.SendMessagePayload)
	Typing(connID domain.ConnID, p domain.TypingPayload)
	StopTyping(connID domain.ConnID, p domain.StopTypingPayload)
}

type RoomService interface {
	CreateRoom(ctx context.Context, userID domain.UserID, name string) (*domain.Room, error)
	JoinByInvite(ctx context.Context, userID domain.UserID, inviteCode string) (*domain.Room, error)
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Room, error)
	GetRoomDetail(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (*domain.RoomDetail, error)
}

type VideoService interface {
	Register(ctx context.Context, video *domain.Video) error
	ListByRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) ([]*domain.Video, error)
	Delete(ctx context.Context, videoID domain.VideoID, userID domain.UserID) (*domain.Video, error)
	GetByFilename(ctx context.Context, filename string) (*domain.Video, error)
}
