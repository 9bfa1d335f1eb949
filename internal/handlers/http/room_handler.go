package http

import (
	stderrors "errors"
	"net/http"
	"strings"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/internal/core/services"
	"togetherwatch/internal/infrastructure/middleware"
	"togetherwatch/pkg/errors"
	"togetherwatch/pkg/validation"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService ports.RoomService
	playback    ports.PlaybackService
	presence    ports.PresenceRegistry
	authService services.AuthService
}

func NewRoomHandler(
	roomService ports.RoomService,
	playback ports.PlaybackService,
	presence ports.PresenceRegistry,
	authService services.AuthService,
) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		playback:    playback,
		presence:    presence,
		authService: authService,
	}
}

func (h *RoomHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/rooms", middleware.AuthMiddleware(h.authService))
	{
		api.POST("", h.CreateRoom)
		api.POST("/join", h.JoinRoom)
		api.GET("", h.ListRooms)
		api.GET("/:id", h.GetRoom)
		api.GET("/:id/state", h.GetRoomState)
	}
}

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type JoinRoomRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	if err := validation.ValidateRoomName(req.Name); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	userID := c.MustGet("user_id").(domain.UserID)

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, strings.TrimSpace(req.Name))
	if err != nil {
		c.Error(errors.NewInternalError("failed to create room"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if err := validation.ValidateInviteCode(code); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	userID := c.MustGet("user_id").(domain.UserID)

	room, err := h.roomService.JoinByInvite(c.Request.Context(), userID, code)
	if err != nil {
		if stderrors.Is(err, domain.ErrRoomNotFound) {
			c.Error(errors.NewNotFoundError("room"))
			return
		}
		c.Error(errors.NewInternalError("failed to join room"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)

	rooms, err := h.roomService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(errors.NewInternalError("failed to list rooms"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))
	userID := c.MustGet("user_id").(domain.UserID)

	detail, err := h.roomService.GetRoomDetail(c.Request.Context(), roomID, userID)
	if err != nil {
		switch {
		case stderrors.Is(err, domain.ErrRoomNotFound):
			c.Error(errors.NewNotFoundError("room"))
		case stderrors.Is(err, domain.ErrNotRoomMember):
			c.Error(errors.NewForbiddenError("not a member of this room"))
		default:
			c.Error(errors.NewInternalError("failed to load room"))
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetRoomState reports who is connected right now and the last playback
// command observed for the room. Positions are as reported by clients;
// the server does not extrapolate.
func (h *RoomHandler) GetRoomState(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))
	userID := c.MustGet("user_id").(domain.UserID)

	if _, err := h.roomService.GetRoomDetail(c.Request.Context(), roomID, userID); err != nil {
		switch {
		case stderrors.Is(err, domain.ErrRoomNotFound):
			c.Error(errors.NewNotFoundError("room"))
		case stderrors.Is(err, domain.ErrNotRoomMember):
			c.Error(errors.NewForbiddenError("not a member of this room"))
		default:
			c.Error(errors.NewInternalError("failed to load room"))
		}
		return
	}

	members := h.presence.ListRoom(roomID)

	resp := gin.H{
		"online": members,
	}
	if state, ok := h.playback.RoomState(roomID); ok {
		resp["playback"] = state
	}

	c.JSON(http.StatusOK, resp)
}
