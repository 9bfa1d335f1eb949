package domain

import "time"

type UserID string

type User struct {
	ID           UserID    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarColor  string    `json:"avatarColor"`
	CreatedAt    time.Time `json:"createdAt"`
}
