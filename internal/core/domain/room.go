package domain

import "time"

type RoomID string

type Room struct {
	ID         RoomID    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatedBy  UserID    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RoomMembership struct {
	RoomID   RoomID    `json:"roomId"`
	UserID   UserID    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// RoomMemberInfo is a membership row joined with the user's profile,
// returned by the room detail endpoint.
type RoomMemberInfo struct {
	UserID      UserID    `json:"userId"`
	Name        string    `json:"name"`
	AvatarColor string    `json:"avatarColor"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// RoomDetail aggregates everything a client needs to render a room page.
type RoomDetail struct {
	Room     *Room            `json:"room"`
	Members  []RoomMemberInfo `json:"members"`
	Messages []*ChatMessage   `json:"messages"`
	Videos   []*Video         `json:"videos"`
}
