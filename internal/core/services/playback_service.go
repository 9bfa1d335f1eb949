package services

import (
	"sync"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"

	"go.uber.org/zap"
)

// playbackService relays playback control events between room members.
// The sender's local clock is the source of truth; the service never
// computes where playback "should" be, it only remembers the last
// command it saw so the room state endpoint can report it.
type playbackService struct {
	registry ports.PresenceRegistry
	sink     ports.EventSink
	logger   *zap.SugaredLogger

	states map[domain.RoomID]domain.PlaybackState
	mu     sync.RWMutex
}

func NewPlaybackService(registry ports.PresenceRegistry, sink ports.EventSink, logger *zap.SugaredLogger) ports.PlaybackService {
	return &playbackService{
		registry: registry,
		sink:     sink,
		logger:   logger,
		states:   make(map[domain.RoomID]domain.PlaybackState),
	}
}

func (s *playbackService) Play(connID domain.ConnID, p domain.PlaybackPayload) {
	s.updateState(p.RoomID, func(st *domain.PlaybackState) {
		st.Playing = true
		st.Position = p.CurrentTime
	})
	s.relay(connID, p.RoomID, domain.EventVideoPlay, domain.CurrentTimePayload{CurrentTime: p.CurrentTime})
}

func (s *playbackService) Pause(connID domain.ConnID, p domain.PlaybackPayload) {
	s.updateState(p.RoomID, func(st *domain.PlaybackState) {
		st.Playing = false
		st.Position = p.CurrentTime
	})
	s.relay(connID, p.RoomID, domain.EventVideoPause, domain.CurrentTimePayload{CurrentTime: p.CurrentTime})
}

func (s *playbackService) Seek(connID domain.ConnID, p domain.PlaybackPayload) {
	// Position changes; the play/pause flag stays as it was.
	s.updateState(p.RoomID, func(st *domain.PlaybackState) {
		st.Position = p.CurrentTime
	})
	s.relay(connID, p.RoomID, domain.EventVideoSeek, domain.CurrentTimePayload{CurrentTime: p.CurrentTime})
}

func (s *playbackService) ChangeVideo(connID domain.ConnID, p domain.VideoChangePayload) {
	s.updateState(p.RoomID, func(st *domain.PlaybackState) {
		st.VideoID = p.VideoID
		st.Title = p.Title
		st.Playing = false
		st.Position = 0
	})
	s.relay(connID, p.RoomID, domain.EventVideoChange, domain.VideoChangedPayload{VideoID: p.VideoID, Title: p.Title})
}

func (s *playbackService) RoomState(roomID domain.RoomID) (domain.PlaybackState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[roomID]
	return st, ok
}

func (s *playbackService) updateState(roomID domain.RoomID, apply func(*domain.PlaybackState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[roomID]
	apply(&st)
	st.UpdatedAt = time.Now().UTC()
	s.states[roomID] = st
}

// relay broadcasts to everyone in the room except the sender. A room
// with no other members is a valid no-op, not an error.
func (s *playbackService) relay(connID domain.ConnID, roomID domain.RoomID, evt domain.EventType, payload interface{}) {
	members := s.registry.ListRoom(roomID)
	s.sink.Deliver(domain.Event{Type: evt, Payload: payload}, recipientIDsExcept(members, connID))
	s.logger.Debugw("playback event relayed", "event", evt, "room_id", roomID, "recipients", len(members)-1)
}
