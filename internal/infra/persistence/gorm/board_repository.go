package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// GormBoardRepository is the GORM implementation of repository.BoardRepository.
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository creates a GormBoardRepository.
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoardRepository")
	}
	return &GormBoardRepository{db: db}
}

func (r *GormBoardRepository) Save(ctx context.Context, board *domain.Board) error {
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return fmt.Errorf("gorm: save board (id: %d, owner: %d): %w", board.ID, board.OwnerID, err)
	}
	return nil
}

func (r *GormBoardRepository) FindByID(ctx context.Context, id uint) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by id %d: %w", id, err)
	}
	return &board, nil
}

func (r *GormBoardRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("last_active DESC").
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list boards for owner %d: %w", ownerID, err)
	}
	return boards, nil
}

func (r *GormBoardRepository) TouchLastActive(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Board{}).
		Where("id = ?", id).
		Update("last_active", time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("gorm: touch last_active for board %d: %w", id, err)
	}
	return nil
}
