package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// BoardRepository is a testify mock of repository.BoardRepository.
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) Save(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *BoardRepository) FindByID(ctx context.Context, id uint) (*domain.Board, error) {
	args := m.Called(ctx, id)
	var board *domain.Board
	if args.Get(0) != nil {
		board = args.Get(0).(*domain.Board)
	}
	return board, args.Error(1)
}

func (m *BoardRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	args := m.Called(ctx, ownerID)
	var boards []domain.Board
	if args.Get(0) != nil {
		boards = args.Get(0).([]domain.Board)
	}
	return boards, args.Error(1)
}

func (m *BoardRepository) TouchLastActive(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
