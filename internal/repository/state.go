package repository

import (
	"context"
	"time"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// StateRepository persists the live editor state of a board, one concern per
// key, and carries the realtime plumbing (op counters, pub/sub). Backed by
// Redis in production.
//
// Every Get returns ErrNotFound when the key is absent; callers fall back to
// the documented defaults and never surface the miss to the user.
type StateRepository interface {
	// === Pixel buffer ===

	GetPixels(ctx context.Context, boardID uint) (domain.PixelBuffer, error)
	SavePixels(ctx context.Context, boardID uint, pixels domain.PixelBuffer) error

	// === Grid size ===

	GetGridSize(ctx context.Context, boardID uint) (int, error)
	SaveGridSize(ctx context.Context, boardID uint, size int) error

	// === Palette ===

	GetPalette(ctx context.Context, boardID uint) ([]string, error)
	SavePalette(ctx context.Context, boardID uint, colors []string) error

	// === Scalar settings (color, tool, pixel size, gridline toggle) ===

	// GetSettings reads the per-field keys, substituting the default for any
	// field that is missing or corrupt. It only errors on transport failure.
	GetSettings(ctx context.Context, boardID uint) (domain.Settings, error)
	SaveSettings(ctx context.Context, boardID uint, settings domain.Settings) error

	// CleanupBoardState removes every key of the board.
	CleanupBoardState(ctx context.Context, boardID uint) error

	// === Autosave bookkeeping ===

	// IncrementOpCount atomically bumps the board's edit counter and returns
	// the new value.
	IncrementOpCount(ctx context.Context, boardID uint) (int64, error)
	GetOpCount(ctx context.Context, boardID uint) (int64, error)
	ResetOpCount(ctx context.Context, boardID uint) error

	// GetLastSnapshotTime returns the zero time (and no error) when the
	// board has never been snapshotted.
	GetLastSnapshotTime(ctx context.Context, boardID uint) (time.Time, error)
	SetLastSnapshotTime(ctx context.Context, boardID uint, timestamp time.Time, ttl time.Duration) error

	// === Pub/Sub ===

	// PublishEvent fans a serialized board event out to live viewers.
	PublishEvent(ctx context.Context, boardID uint, payload []byte) error
}
