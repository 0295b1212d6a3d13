package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// SnapshotCheckHandler runs the periodic autosave sweep: every active board
// is checked and snapshotted when enough edits accumulated.
type SnapshotCheckHandler struct {
	editor          *service.EditorService
	snapshotService *service.SnapshotService
	stateRepo       repository.StateRepository
}

// NewSnapshotCheckHandler creates a SnapshotCheckHandler.
func NewSnapshotCheckHandler(
	editor *service.EditorService,
	snapshotService *service.SnapshotService,
	stateRepo repository.StateRepository,
) *SnapshotCheckHandler {
	if editor == nil || snapshotService == nil || stateRepo == nil {
		panic("all dependencies must be non-nil for SnapshotCheckHandler")
	}
	return &SnapshotCheckHandler{
		editor:          editor,
		snapshotService: snapshotService,
		stateRepo:       stateRepo,
	}
}

// ProcessTask implements asynq.Handler.
func (h *SnapshotCheckHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	boardIDs := h.editor.ActiveBoardIDs()
	if len(boardIDs) == 0 {
		logCtx.Debug("No active boards, skipping snapshot sweep")
		return nil
	}
	logCtx.Infof("Checking %d active boards for snapshot", len(boardIDs))

	// Per-board failures are logged, not returned: one broken board must
	// not force a retry of the whole sweep.
	var wg sync.WaitGroup
	for _, boardID := range boardIDs {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			boardLog := logCtx.WithField("board_id", id)

			checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			// The last snapshot time lives in the state store, so every
			// instance of the sweep agrees on it.
			lastTime, err := h.stateRepo.GetLastSnapshotTime(checkCtx, id)
			if err != nil {
				boardLog.WithError(err).Warn("Failed to read last snapshot time, assuming never")
				lastTime = time.Time{}
			}

			if _, err := h.snapshotService.CheckAndGenerateSnapshot(checkCtx, id, lastTime); err != nil {
				boardLog.WithError(err).Error("Snapshot check failed for board")
			}
		}(boardID)
	}
	wg.Wait()

	logCtx.Debug("Snapshot sweep completed")
	return nil
}
