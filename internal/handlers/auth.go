// internal/handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"army-list-builder-backend/internal/middleware"
	"army-list-builder-backend/internal/models"
	"army-list-builder-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	ByUsername(ctx context.Context, username string) (models.User, string, error)
}

type AuthHandler struct {
	users    UserRepository
	jwtKey   string
	tokenTTL time.Duration
}

func NewAuthHandler(users UserRepository, jwtKey string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:    users,
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
	}
}

// Register создаёт пользователя и сразу выдаёт токен
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), strings.TrimSpace(req.Username), string(hash))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, hash, err := h.users.ByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user models.User) {
	token, err := middleware.GenerateToken(h.jwtKey, user.ID, user.IsAdmin, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(status, models.AuthResponse{
		Token: token,
		User:  user,
	})
}
