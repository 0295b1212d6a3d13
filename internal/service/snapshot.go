package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// SnapshotService turns live sessions into durable board snapshots. Busier
// boards are snapshotted more often.
type SnapshotService struct {
	snapshotRepo repository.SnapshotRepository
	stateRepo    repository.StateRepository
	editor       *EditorService
}

// NewSnapshotService creates a SnapshotService.
func NewSnapshotService(
	snapshotRepo repository.SnapshotRepository,
	stateRepo repository.StateRepository,
	editor *EditorService,
) *SnapshotService {
	if snapshotRepo == nil || stateRepo == nil || editor == nil {
		panic("all dependencies must be non-nil for SnapshotService")
	}
	return &SnapshotService{
		snapshotRepo: snapshotRepo,
		stateRepo:    stateRepo,
		editor:       editor,
	}
}

// CheckAndGenerateSnapshot snapshots the board when enough edits have piled
// up since lastSnapshotTime. It returns the (possibly unchanged) last
// snapshot time, so a failed generation retries sooner.
func (s *SnapshotService) CheckAndGenerateSnapshot(ctx context.Context, boardID uint, lastSnapshotTime time.Time) (time.Time, error) {
	logCtx := logrus.WithField("board_id", boardID)

	opCount, err := s.stateRepo.GetOpCount(ctx, boardID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to get op count for snapshot check")
		return lastSnapshotTime, ErrInternalServer
	}
	if opCount == 0 {
		logCtx.Debug("No edits since last snapshot, skipping")
		return lastSnapshotTime, nil
	}

	interval := snapshotInterval(int(opCount))
	if !shouldSnapshot(lastSnapshotTime, interval) {
		logCtx.Debugf("Snapshot condition not met (last: %s, interval: %s, ops: %d)",
			lastSnapshotTime.Format(time.RFC3339), interval, opCount)
		return lastSnapshotTime, nil
	}

	if err := s.generateSnapshot(ctx, boardID, uint(opCount)); err != nil {
		logCtx.WithError(err).Error("Snapshot generation failed")
		return lastSnapshotTime, err
	}

	now := time.Now().UTC()
	if err := s.stateRepo.SetLastSnapshotTime(ctx, boardID, now, 7*24*time.Hour); err != nil {
		logCtx.WithError(err).Warn("Failed to record last snapshot time")
	}
	return now, nil
}

// generateSnapshot exports the live session and persists it.
func (s *SnapshotService) generateSnapshot(ctx context.Context, boardID uint, opCount uint) error {
	doc := s.editor.ExportDocument(ctx, boardID)

	snapshot := &domain.BoardSnapshot{
		BoardID:   boardID,
		Version:   opCount,
		CreatedAt: time.Now().UTC(),
	}
	if err := snapshot.SetDocument(doc); err != nil {
		return fmt.Errorf("failed to set snapshot document: %w", err)
	}
	if err := s.snapshotRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if err := s.stateRepo.ResetOpCount(ctx, boardID); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to reset op count after snapshot")
	}

	logrus.WithFields(logrus.Fields{"board_id": boardID, "ops": opCount}).Info("Board snapshot saved")
	return nil
}

// snapshotInterval shortens the autosave interval for busy boards.
func snapshotInterval(opCountSinceLast int) time.Duration {
	if opCountSinceLast > 100 {
		return 30 * time.Second
	} else if opCountSinceLast > 20 {
		return 2 * time.Minute
	}
	return 10 * time.Minute
}

func shouldSnapshot(lastSnapshotTime time.Time, interval time.Duration) bool {
	return lastSnapshotTime.IsZero() || time.Since(lastSnapshotTime) >= interval
}
