package domain

import "time"

// PlaybackState is the last playback command observed for a room. The
// server never computes elapsed time from it and never re-broadcasts it
// on its own; it exists only as a snapshot for the room state endpoint.
type PlaybackState struct {
	VideoID   VideoID   `json:"videoId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Playing   bool      `json:"playing"`
	Position  float64   `json:"position"`
	UpdatedAt time.Time `json:"updatedAt"`
}
