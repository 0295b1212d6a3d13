package tasks

import (
	"github.com/hibiken/asynq"
)

// Task types handled by the worker.
const (
	// TypeSnapshotCheck sweeps the active boards and snapshots the ones
	// with enough pending edits.
	TypeSnapshotCheck = "snapshot:check"
)

// SnapshotCheckInterval is the schedule of the periodic snapshot sweep. The
// per-board autosave cadence is decided inside the sweep, so the sweep
// itself can run often and cheaply.
const SnapshotCheckInterval = "@every 30s"

// NewSnapshotCheckTask creates the periodic snapshot sweep task. It carries
// no payload; the worker discovers the active boards itself.
func NewSnapshotCheckTask() *asynq.Task {
	return asynq.NewTask(TypeSnapshotCheck, nil)
}
