package ports

import (
	"context"

	"togetherwatch/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	GetByInviteCode(ctx context.Context, code string) (*domain.Room, error)
	AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	IsMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (bool, error)
	ListMembers(ctx context.Context, roomID domain.RoomID) ([]domain.RoomMembership, error)
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Room, error)
}

type MessageRepository interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
	ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]*domain.ChatMessage, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id domain.VideoID) (*domain.Video, error)
	GetByFilename(ctx context.Context, filename string) (*domain.Video, error)
	Delete(ctx context.Context, id domain.VideoID) error
	ListByRoom(ctx context.Context, roomID domain.RoomID) ([]*domain.Video, error)
}

// PresenceRegistry tracks which live connections belong to which room.
// It is purely in-memory and intentionally not durable: a process
// restart loses presence and reconnecting clients rebuild it.
type PresenceRegistry interface {
	// Join registers the connection under the room. An existing entry
	// for the same (room, user) pair under a different connection is
	// replaced, so a reconnect never yields a duplicate.
	Join(roomID domain.RoomID, connID domain.ConnID, userID domain.UserID, userName string)
	// Leave removes the connection from whatever room it was in.
	// Calling it for an unknown connection is a no-op.
	Leave(connID domain.ConnID)
	// ListRoom returns the room's members in insertion order. Unknown
	// rooms yield an empty slice, not an error.
	ListRoom(roomID domain.RoomID) []domain.Member
	// RoomOf resolves the connection's current binding, if any.
	RoomOf(connID domain.ConnID) (domain.RoomID, domain.Member, bool)
}
