package services

import (
	"context"
	"strings"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const roomHistoryLimit = 100

type roomService struct {
	rooms    ports.RoomRepository
	users    ports.UserRepository
	messages ports.MessageRepository
	videos   ports.VideoRepository
	logger   *zap.SugaredLogger
}

func NewRoomService(
	rooms ports.RoomRepository,
	users ports.UserRepository,
	messages ports.MessageRepository,
	videos ports.VideoRepository,
	logger *zap.SugaredLogger,
) ports.RoomService {
	return &roomService{
		rooms:    rooms,
		users:    users,
		messages: messages,
		videos:   videos,
		logger:   logger,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, userID domain.UserID, name string) (*domain.Room, error) {
	room := &domain.Room{
		ID:         domain.RoomID(uuid.New().String()),
		Name:       strings.TrimSpace(name),
		InviteCode: utils.GenerateInviteCode(),
		CreatedBy:  userID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	if err := s.rooms.AddMember(ctx, room.ID, userID); err != nil {
		return nil, err
	}

	s.logger.Infow("room created", "room_id", room.ID, "invite_code", room.InviteCode, "created_by", userID)
	return room, nil
}

func (s *roomService) JoinByInvite(ctx context.Context, userID domain.UserID, inviteCode string) (*domain.Room, error) {
	room, err := s.rooms.GetByInviteCode(ctx, strings.ToUpper(strings.TrimSpace(inviteCode)))
	if err != nil {
		return nil, err
	}

	// Joining a room you are already in is fine; membership is a set.
	if err := s.rooms.AddMember(ctx, room.ID, userID); err != nil {
		return nil, err
	}

	s.logger.Infow("user joined room by invite", "room_id", room.ID, "user_id", userID)
	return room, nil
}

func (s *roomService) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Room, error) {
	return s.rooms.ListForUser(ctx, userID)
}

func (s *roomService) GetRoomDetail(ctx context.Context, roomID domain.RoomID, userID domain.UserID) (*domain.RoomDetail, error) {
	member, err := s.rooms.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotRoomMember
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.rooms.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.RoomMemberInfo, 0, len(memberships))
	for _, m := range memberships {
		info := domain.RoomMemberInfo{UserID: m.UserID, JoinedAt: m.JoinedAt}
		if user, err := s.users.GetByID(ctx, m.UserID); err == nil {
			info.Name = user.Name
			info.AvatarColor = user.AvatarColor
		}
		members = append(members, info)
	}

	messages, err := s.messages.ListRecent(ctx, roomID, roomHistoryLimit)
	if err != nil {
		return nil, err
	}

	videos, err := s.videos.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &domain.RoomDetail{
		Room:     room,
		Members:  members,
		Messages: messages,
		Videos:   videos,
	}, nil
}
