package memory

import (
	"context"
	"sort"
	"sync"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
)

type VideoRepository struct {
	videos     map[domain.VideoID]*domain.Video
	byFilename map[string]domain.VideoID
	mu         sync.RWMutex
}

func NewVideoRepository() ports.VideoRepository {
	return &VideoRepository{
		videos:     make(map[domain.VideoID]*domain.Video),
		byFilename: make(map[string]domain.VideoID),
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := *video
	r.videos[video.ID] = &v
	r.byFilename[video.Filename] = video.ID
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	video, exists := r.videos[id]
	if !exists {
		return nil, domain.ErrVideoNotFound
	}
	v := *video
	return &v, nil
}

func (r *VideoRepository) GetByFilename(ctx context.Context, filename string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byFilename[filename]
	if !exists {
		return nil, domain.ErrVideoNotFound
	}
	v := *r.videos[id]
	return &v, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id domain.VideoID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	video, exists := r.videos[id]
	if !exists {
		return domain.ErrVideoNotFound
	}
	delete(r.byFilename, video.Filename)
	delete(r.videos, id)
	return nil
}

func (r *VideoRepository) ListByRoom(ctx context.Context, roomID domain.RoomID) ([]*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var videos []*domain.Video
	for _, video := range r.videos {
		if video.RoomID == roomID {
			v := *video
			videos = append(videos, &v)
		}
	}
	// Newest first, matching the room page ordering.
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	return videos, nil
}
