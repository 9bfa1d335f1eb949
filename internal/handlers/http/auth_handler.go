package http

import (
	stderrors "errors"
	"net/http"
	"strings"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/services"
	"togetherwatch/internal/infrastructure/middleware"
	"togetherwatch/pkg/errors"
	"togetherwatch/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/auth")
	{
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)
		api.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validation.ValidateUserName(req.Name); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	user, token, err := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if stderrors.Is(err, domain.ErrEmailTaken) {
			c.Error(errors.NewConflictError("email is already registered"))
			return
		}
		c.Error(errors.NewInternalError("failed to create user"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if stderrors.Is(err, domain.ErrInvalidPassword) {
			c.Error(errors.NewUnauthorizedError("invalid email or password"))
			return
		}
		c.Error(errors.NewInternalError("failed to log in"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(domain.UserID)

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if stderrors.Is(err, domain.ErrUserNotFound) {
			c.Error(errors.NewNotFoundError("user"))
			return
		}
		c.Error(errors.NewInternalError("failed to load user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
