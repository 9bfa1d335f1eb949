package domain

import "time"

// ChatMessage is the relayed (and best-effort persisted) form of a chat
// message. ID and Time are assigned by the server at broadcast time.
type ChatMessage struct {
	ID       string    `json:"id"`
	RoomID   RoomID    `json:"roomId"`
	UserID   UserID    `json:"userId"`
	UserName string    `json:"userName"`
	Content  string    `json:"content"`
	Time     time.Time `json:"time"`
}
