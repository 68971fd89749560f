package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"army-list-builder-backend/internal/middleware"
	"army-list-builder-backend/internal/models"
	"army-list-builder-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users  map[string]models.User
	hashes map[string]string
}

func (f *fakeUsers) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	if _, exists := f.users[username]; exists {
		return models.User{}, storage.ErrDuplicateName
	}
	user := models.User{ID: len(f.users) + 1, Username: username}
	f.users[username] = user
	f.hashes[username] = passwordHash
	return user, nil
}

func (f *fakeUsers) ByUsername(ctx context.Context, username string) (models.User, string, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, "", storage.ErrUserNotFound
	}
	return user, f.hashes[username], nil
}

func TestRegisterAndLogin(t *testing.T) {
	users := &fakeUsers{users: map[string]models.User{}, hashes: map[string]string{}}
	h := NewAuthHandler(users, "key", time.Hour)

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	w := doJSON(t, r, http.MethodPost, "/register", models.RegisterRequest{Username: "marshal", Password: "correct horse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[models.AuthResponse](t, w)
	assert.Equal(t, "marshal", registered.User.Username)
	assert.NotEqual(t, "correct horse", users.hashes["marshal"])

	w = doJSON(t, r, http.MethodPost, "/register", models.RegisterRequest{Username: "marshal", Password: "another one"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Username: "marshal", Password: "correct horse"})
	require.Equal(t, http.StatusOK, w.Code)
	claims, err := middleware.ParseToken("key", decode[models.AuthResponse](t, w).Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	w = doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Username: "marshal", Password: "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", models.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/register", models.RegisterRequest{Username: "ab", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
