package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrRoomNotFound    = errors.New("room not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrNotRoomMember   = errors.New("not a member of this room")
	ErrNotVideoOwner   = errors.New("video belongs to another user")
	ErrInvalidPassword = errors.New("invalid credentials")
)
