package domain

import "time"

type VideoID string

type Video struct {
	ID         VideoID   `json:"id"`
	RoomID     RoomID    `json:"roomId"`
	UploadedBy UserID    `json:"uploadedBy"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"fileSize"`
	CreatedAt  time.Time `json:"createdAt"`
}
