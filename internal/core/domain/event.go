package domain

// EventType names one message on the room session wire. Inbound and
// outbound vocabularies overlap: playback and typing events are relayed
// under the same name they arrived with.
type EventType string

const (
	// Inbound
	EventJoinRoom    EventType = "join_room"
	EventSendMessage EventType = "send_message"
	EventTyping      EventType = "typing"
	EventStopTyping  EventType = "stop_typing"
	EventVideoPlay   EventType = "video_play"
	EventVideoPause  EventType = "video_pause"
	EventVideoSeek   EventType = "video_seek"
	EventVideoChange EventType = "video_change"

	// Outbound only
	EventRoomUsers      EventType = "room_users"
	EventUserJoined     EventType = "user_joined"
	EventUserLeft       EventType = "user_left"
	EventReceiveMessage EventType = "receive_message"
)

// Event is the wire envelope for the room session channel.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID   RoomID `json:"roomId"`
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
}

type SendMessagePayload struct {
	RoomID   RoomID `json:"roomId"`
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

type TypingPayload struct {
	RoomID   RoomID `json:"roomId"`
	UserName string `json:"userName"`
}

type StopTypingPayload struct {
	RoomID RoomID `json:"roomId"`
}

// PlaybackPayload carries video_play, video_pause and video_seek.
type PlaybackPayload struct {
	RoomID      RoomID  `json:"roomId"`
	CurrentTime float64 `json:"currentTime"`
}

type VideoChangePayload struct {
	RoomID  RoomID  `json:"roomId"`
	VideoID VideoID `json:"videoId"`
	Title   string  `json:"title"`
}

// TypingNoticePayload is the outbound form of the typing relay.
type TypingNoticePayload struct {
	UserName string `json:"userName"`
}

type UserJoinedPayload struct {
	UserName string `json:"userName"`
}

type UserLeftPayload struct {
	UserName string `json:"userName"`
}

type ReceiveMessagePayload struct {
	ID       string `json:"id"`
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
	Time     string `json:"time"`
}

// CurrentTimePayload is the outbound form of play/pause/seek relays.
type CurrentTimePayload struct {
	CurrentTime float64 `json:"currentTime"`
}

type VideoChangedPayload struct {
	VideoID VideoID `json:"videoId"`
	Title   string  `json:"title"`
}
