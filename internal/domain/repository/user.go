package repository

import (
	"context"

	"github.com/polkiloo/profilehub/internal/domain/model"
)

// UserRepository describes persistence operations for users.
// Create must fail with errors.ErrAlreadyExists when the email is taken.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
}

// HealthChecker is implemented by stores that can report connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
