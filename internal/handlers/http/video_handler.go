package http

import (
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/internal/core/services"
	"togetherwatch/internal/infrastructure/middleware"
	"togetherwatch/internal/infrastructure/monitoring"
	"togetherwatch/pkg/config"
	"togetherwatch/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedVideoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
}

type VideoHandler struct {
	videoService ports.VideoService
	authService  services.AuthService
	cfg          *config.Config
	collector    *monitoring.PrometheusCollector
	logger       *zap.SugaredLogger
}

func NewVideoHandler(
	videoService ports.VideoService,
	authService services.AuthService,
	cfg *config.Config,
	collector *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		authService:  authService,
		cfg:          cfg,
		collector:    collector,
		logger:       logger,
	}
}

func (h *VideoHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/videos", middleware.AuthMiddleware(h.authService))
	{
		api.POST("", h.Upload)
		api.GET("/room/:roomId", h.ListByRoom)
		api.DELETE("/:id", h.Delete)
	}

	// Range requests are what make seeking work in the browser, so the
	// file is served with http.ServeContent rather than streamed whole.
	router.GET("/stream/:filename", h.Stream)
}

func (h *VideoHandler) Upload(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)

	roomID := domain.RoomID(c.PostForm("roomId"))
	if roomID == "" {
		c.Error(errors.NewInvalidInputError("roomId is required"))
		return
	}

	file, err := c.FormFile("video")
	if err != nil {
		c.Error(errors.NewInvalidInputError("video file is required"))
		return
	}

	if file.Size > h.cfg.Storage.MaxUploadBytes {
		c.Error(errors.NewInvalidInputError("file exceeds the maximum upload size"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedVideoExtensions[ext] {
		c.Error(errors.NewInvalidInputError("unsupported video format"))
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(file.Filename), ext)
	}

	// Stored name is server-generated; the client's filename never
	// touches the filesystem.
	storedName := uuid.New().String() + ext
	dst := filepath.Join(h.cfg.Storage.UploadsDir, storedName)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Errorw("failed to save uploaded file", "error", err, "path", dst)
		c.Error(errors.NewInternalError("failed to store video"))
		return
	}

	video := &domain.Video{
		ID:         domain.VideoID(uuid.New().String()),
		RoomID:     roomID,
		UploadedBy: userID,
		Title:      title,
		Filename:   storedName,
		FileSize:   file.Size,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.videoService.Register(c.Request.Context(), video); err != nil {
		os.Remove(dst)
		if stderrors.Is(err, domain.ErrNotRoomMember) {
			c.Error(errors.NewForbiddenError("not a member of this room"))
			return
		}
		c.Error(errors.NewInternalError("failed to register video"))
		return
	}

	if h.collector != nil {
		h.collector.RecordUploadBytes(file.Size)
	}

	c.JSON(http.StatusCreated, gin.H{"video": video})
}

func (h *VideoHandler) ListByRoom(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)
	roomID := domain.RoomID(c.Param("roomId"))

	videos, err := h.videoService.ListByRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		if stderrors.Is(err, domain.ErrNotRoomMember) {
			c.Error(errors.NewForbiddenError("not a member of this room"))
			return
		}
		c.Error(errors.NewInternalError("failed to list videos"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)
	videoID := domain.VideoID(c.Param("id"))

	video, err := h.videoService.Delete(c.Request.Context(), videoID, userID)
	if err != nil {
		switch {
		case stderrors.Is(err, domain.ErrVideoNotFound):
			c.Error(errors.NewNotFoundError("video"))
		case stderrors.Is(err, domain.ErrNotVideoOwner):
			c.Error(errors.NewForbiddenError("only the uploader can delete a video"))
		default:
			c.Error(errors.NewInternalError("failed to delete video"))
		}
		return
	}

	path := filepath.Join(h.cfg.Storage.UploadsDir, video.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.logger.Warnw("failed to remove video file", "path", path, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"deleted": video.ID})
}

func (h *VideoHandler) Stream(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))

	video, err := h.videoService.GetByFilename(c.Request.Context(), filename)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(h.cfg.Storage.UploadsDir, video.Filename)
	f, err := os.Open(path)
	if err != nil {
		h.logger.Errorw("video file missing on disk", "path", path, "error", err)
		c.Status(http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	http.ServeContent(c.Writer, c.Request, video.Filename, info.ModTime(), f)
}
