// internal/storage/errors.go
package storage

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrListNotFound  = errors.New("army list not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateName = errors.New("name already taken")
)

// unique_violation
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
