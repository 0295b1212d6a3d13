package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// SnapshotRepository is a testify mock of repository.SnapshotRepository.
type SnapshotRepository struct {
	mock.Mock
}

func (m *SnapshotRepository) GetLatestSnapshot(ctx context.Context, boardID uint) (*domain.BoardSnapshot, error) {
	args := m.Called(ctx, boardID)
	var snapshot *domain.BoardSnapshot
	if args.Get(0) != nil {
		snapshot = args.Get(0).(*domain.BoardSnapshot)
	}
	return snapshot, args.Error(1)
}

func (m *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *domain.BoardSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}
