package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// GormSnapshotRepository is the GORM implementation of
// repository.SnapshotRepository.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a GormSnapshotRepository.
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSnapshotRepository")
	}
	return &GormSnapshotRepository{db: db}
}

func (r *GormSnapshotRepository) GetLatestSnapshot(ctx context.Context, boardID uint) (*domain.BoardSnapshot, error) {
	var snapshot domain.BoardSnapshot
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("gorm: get latest snapshot for board %d: %w", boardID, err)
	}
	return &snapshot, nil
}

func (r *GormSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *domain.BoardSnapshot) error {
	// Snapshots are append-only rows, so Create rather than Save.
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("gorm: save snapshot (board %d, version %d): %w", snapshot.BoardID, snapshot.Version, err)
	}
	return nil
}
