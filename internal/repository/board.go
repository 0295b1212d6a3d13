package repository

import (
	"context"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// BoardRepository stores board records in the database.
type BoardRepository interface {
	// Save inserts the board (or updates it when the ID is set).
	Save(ctx context.Context, board *domain.Board) error

	// FindByID returns ErrBoardNotFound when the board does not exist.
	FindByID(ctx context.Context, id uint) (*domain.Board, error)

	// FindByOwner lists the boards of one user, most recently active first.
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error)

	// TouchLastActive bumps the board's last-active timestamp.
	TouchLastActive(ctx context.Context, id uint) error
}
