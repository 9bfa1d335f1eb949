package services

import (
	"context"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"

	"go.uber.org/zap"
)

type videoService struct {
	videos ports.VideoRepository
	rooms  ports.RoomRepository
	logger *zap.SugaredLogger
}

func NewVideoService(videos ports.VideoRepository, rooms ports.RoomRepository, logger *zap.SugaredLogger) ports.VideoService {
	return &videoService{
		videos: videos,
		rooms:  rooms,
		logger: logger,
	}
}

func (s *videoService) Register(ctx context.Context, video *domain.Video) error {
	member, err := s.rooms.IsMember(ctx, video.RoomID, video.UploadedBy)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotRoomMember
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return err
	}

	s.logger.Infow("video registered",
		"video_id", video.ID,
		"room_id", video.RoomID,
		"title", video.Title,
		"size", video.FileSize,
	)
	return nil
}

func (s *videoService) ListByRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) ([]*domain.Video, error) {
	member, err := s.rooms.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotRoomMember
	}
	return s.videos.ListByRoom(ctx, roomID)
}

// Delete removes the metadata row after checking ownership and returns
// the deleted video so the caller can remove the file from disk.
func (s *videoService) Delete(ctx context.Context, videoID domain.VideoID, userID domain.UserID) (*domain.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.UploadedBy != userID {
		return nil, domain.ErrNotVideoOwner
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return nil, err
	}

	s.logger.Infow("video deleted", "video_id", videoID, "room_id", video.RoomID)
	return video, nil
}

func (s *videoService) GetByFilename(ctx context.Context, filename string) (*domain.Video, error) {
	return s.videos.GetByFilename(ctx, filename)
}
