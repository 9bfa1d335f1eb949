package services

import (
	"context"
	"sync"

	"togetherwatch/internal/core/domain"

	"go.uber.org/zap"
)

// fakeSink records every delivery so tests can assert on both event
// contents and recipient sets.
type fakeSink struct {
	mu         sync.Mutex
	deliveries []delivery
}

type delivery struct {
	event      domain.Event
	recipients []domain.ConnID
}

func (f *fakeSink) Deliver(event domain.Event, recipients []domain.ConnID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery{event: event, recipients: recipients})
}

func (f *fakeSink) all() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]delivery, len(f.deliveries))
	copy(out, f.deliveries)
	return out
}

func (f *fakeSink) byType(t domain.EventType) []delivery {
	var out []delivery
	for _, d := range f.all() {
		if d.event.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// fakeRegistry is a minimal in-memory stand-in for the presence
// registry, pre-seeded by tests.
type fakeRegistry struct {
	mu    sync.Mutex
	rooms map[domain.RoomID][]domain.Member
	conns map[domain.ConnID]domain.RoomID
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		rooms: make(map[domain.RoomID][]domain.Member),
		conns: make(map[domain.ConnID]domain.RoomID),
	}
}

func (r *fakeRegistry) Join(roomID domain.RoomID, connID domain.ConnID, userID domain.UserID, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[roomID]
	kept := members[:0]
	for _, m := range members {
		if m.UserID == userID {
			delete(r.conns, m.ConnID)
			continue
		}
		kept = append(kept, m)
	}
	r.rooms[roomID] = append(kept, domain.Member{ConnID: connID, UserID: userID, UserName: userName})
	r.conns[connID] = roomID
}

func (r *fakeRegistry) Leave(connID domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)

	members := r.rooms[roomID]
	kept := members[:0]
	for _, m := range members {
		if m.ConnID != connID {
			kept = append(kept, m)
		}
	}
	r.rooms[roomID] = kept
}

func (r *fakeRegistry) ListRoom(roomID domain.RoomID) []domain.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Member, len(r.rooms[roomID]))
	copy(out, r.rooms[roomID])
	return out
}

func (r *fakeRegistry) RoomOf(connID domain.ConnID) (domain.RoomID, domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.conns[connID]
	if !ok {
		return "", domain.Member{}, false
	}
	for _, m := range r.rooms[roomID] {
		if m.ConnID == connID {
			return roomID, m, true
		}
	}
	return "", domain.Member{}, false
}

// fakeMessageRepo records appended messages.
type fakeMessageRepo struct {
	mu        sync.Mutex
	appended  []*domain.ChatMessage
	appendErr error
}

func (f *fakeMessageRepo) Append(ctx context.Context, msg *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, msg)
	return nil
}

func (f *fakeMessageRepo) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ChatMessage
	for _, m := range f.appended {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
