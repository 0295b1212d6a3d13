package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository/mocks"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

func newSnapshotService(state repository.StateRepository) (*service.SnapshotService, *mocks.SnapshotRepository) {
	snapshotRepo := new(mocks.SnapshotRepository)
	snapshotRepo.On("GetLatestSnapshot", mock.Anything, mock.Anything).
		Return(nil, repository.ErrSnapshotNotFound).Maybe()
	editor := service.NewEditorService(state, snapshotRepo, service.NewDocumentService())
	return service.NewSnapshotService(snapshotRepo, state, editor), snapshotRepo
}

func TestSnapshotService_SkipsIdleBoard(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, snapshotRepo := newSnapshotService(state)

	last := time.Now().Add(-time.Hour)
	got, err := svc.CheckAndGenerateSnapshot(context.Background(), 1, last)
	require.NoError(t, err)
	assert.Equal(t, last, got, "no edits means no new snapshot")
	snapshotRepo.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
}

func TestSnapshotService_GeneratesAndResetsOpCount(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, snapshotRepo := newSnapshotService(state)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := state.IncrementOpCount(ctx, 1)
		require.NoError(t, err)
	}

	var saved *domain.BoardSnapshot
	snapshotRepo.On("SaveSnapshot", mock.Anything, mock.AnythingOfType("*domain.BoardSnapshot")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.BoardSnapshot) }).
		Return(nil).Once()

	// Zero last-snapshot time means the board has never been snapshotted.
	got, err := svc.CheckAndGenerateSnapshot(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.False(t, got.IsZero())

	require.NotNil(t, saved)
	assert.Equal(t, uint(1), saved.BoardID)
	assert.EqualValues(t, 3, saved.Version)
	doc, err := saved.ParseDocument()
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentVersion, doc.Version)
	assert.Equal(t, domain.DefaultGridSize, doc.Size)

	count, err := state.GetOpCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	stamp, err := state.GetLastSnapshotTime(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, got, stamp)
	snapshotRepo.AssertExpectations(t)
}

func TestSnapshotService_RespectsInterval(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, snapshotRepo := newSnapshotService(state)
	ctx := context.Background()

	// A handful of edits only warrants a snapshot every 10 minutes.
	for i := 0; i < 5; i++ {
		_, err := state.IncrementOpCount(ctx, 2)
		require.NoError(t, err)
	}

	last := time.Now().Add(-time.Minute)
	got, err := svc.CheckAndGenerateSnapshot(ctx, 2, last)
	require.NoError(t, err)
	assert.Equal(t, last, got)
	snapshotRepo.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)

	// A busy board (>100 edits) snapshots after 30 seconds.
	for i := 0; i < 150; i++ {
		_, err := state.IncrementOpCount(ctx, 2)
		require.NoError(t, err)
	}
	snapshotRepo.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Once()

	got, err = svc.CheckAndGenerateSnapshot(ctx, 2, last)
	require.NoError(t, err)
	assert.NotEqual(t, last, got)
	snapshotRepo.AssertExpectations(t)
}

func TestSnapshotService_SaveFailureKeepsLastTime(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, snapshotRepo := newSnapshotService(state)
	ctx := context.Background()

	_, err := state.IncrementOpCount(ctx, 3)
	require.NoError(t, err)
	snapshotRepo.On("SaveSnapshot", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	got, err := svc.CheckAndGenerateSnapshot(ctx, 3, time.Time{})
	assert.Error(t, err)
	assert.True(t, got.IsZero(), "failed generation must not advance the snapshot clock")

	// The pending edits are still counted, so the next sweep retries.
	count, err := state.GetOpCount(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
