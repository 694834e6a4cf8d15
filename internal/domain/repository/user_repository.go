package repository

import (
	"context"

	"github.com/madinafit/fitness-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// GetByEmail and GetByID return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}
