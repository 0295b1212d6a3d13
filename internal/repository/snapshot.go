package repository

import (
	"context"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// SnapshotRepository stores durable board snapshots in the database.
type SnapshotRepository interface {
	// GetLatestSnapshot returns ErrSnapshotNotFound when the board has no
	// snapshot yet.
	GetLatestSnapshot(ctx context.Context, boardID uint) (*domain.BoardSnapshot, error)

	// SaveSnapshot inserts a new snapshot row.
	SaveSnapshot(ctx context.Context, snapshot *domain.BoardSnapshot) error
}
