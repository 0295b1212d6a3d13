package repository

import (
	"context"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// UserRepository stores user accounts.
type UserRepository interface {
	// Save inserts the user. Returns ErrDuplicateEntry on username/email
	// uniqueness violations.
	Save(ctx context.Context, user *domain.User) error

	// FindByUsername returns ErrUserNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when no such user exists.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
