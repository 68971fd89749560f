// internal/storage/users.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"army-list-builder-backend/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create регистрирует пользователя с уже захешированным паролем
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, is_admin, created_at
	`, username, passwordHash).Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateName
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ByUsername возвращает пользователя и хеш его пароля
func (s *UserStore) ByUsername(ctx context.Context, username string) (models.User, string, error) {
	var (
		user models.User
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &hash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", ErrUserNotFound
		}
		return models.User{}, "", fmt.Errorf("get user: %w", err)
	}
	return user, hash, nil
}
