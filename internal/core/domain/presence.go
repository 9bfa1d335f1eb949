package domain

// ConnID identifies a single live transport connection. A user that
// reconnects gets a new ConnID; the registry evicts the stale one.
type ConnID string

// Member is one online entry in a room's presence list.
type Member struct {
	ConnID   ConnID `json:"connectionId"`
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
}
