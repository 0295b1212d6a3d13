package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// MemoryStateRepository is an in-memory StateRepository for tests. Unlike a
// call-expectation mock it keeps real state, so save-then-load flows behave
// like they do against Redis.
type MemoryStateRepository struct {
	mu sync.Mutex

	pixels     map[uint]domain.PixelBuffer
	gridSizes  map[uint]int
	palettes   map[uint][]string
	settings   map[uint]domain.Settings
	opCounts   map[uint]int64
	snapTimes  map[uint]time.Time
	Published  map[uint][][]byte // boardID -> raw event payloads, for assertions
	FailWrites bool              // simulate a storage-write outage
}

// NewMemoryStateRepository returns an empty in-memory state store.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		pixels:    make(map[uint]domain.PixelBuffer),
		gridSizes: make(map[uint]int),
		palettes:  make(map[uint][]string),
		settings:  make(map[uint]domain.Settings),
		opCounts:  make(map[uint]int64),
		snapTimes: make(map[uint]time.Time),
		Published: make(map[uint][][]byte),
	}
}

func (m *MemoryStateRepository) writeErr() error {
	if m.FailWrites {
		return context.DeadlineExceeded
	}
	return nil
}

func (m *MemoryStateRepository) GetPixels(ctx context.Context, boardID uint) (domain.PixelBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	px, ok := m.pixels[boardID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return px.Clone(), nil
}

func (m *MemoryStateRepository) SavePixels(ctx context.Context, boardID uint, pixels domain.PixelBuffer) error {
	if err := m.writeErr(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pixels[boardID] = pixels.Clone()
	return nil
}

func (m *MemoryStateRepository) GetGridSize(ctx context.Context, boardID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.gridSizes[boardID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return n, nil
}

func (m *MemoryStateRepository) SaveGridSize(ctx context.Context, boardID uint, size int) error {
	if err := m.writeErr(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gridSizes[boardID] = size
	return nil
}

func (m *MemoryStateRepository) GetPalette(ctx context.Context, boardID uint) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	colors, ok := m.palettes[boardID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]string, len(colors))
	copy(out, colors)
	return out, nil
}

func (m *MemoryStateRepository) SavePalette(ctx context.Context, boardID uint, colors []string) error {
	if err := m.writeErr(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]string, len(colors))
	copy(saved, colors)
	m.palettes[boardID] = saved
	return nil
}

func (m *MemoryStateRepository) GetSettings(ctx context.Context, boardID uint) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[boardID]
	if !ok {
		return domain.DefaultSettings(), nil
	}
	return s, nil
}

func (m *MemoryStateRepository) SaveSettings(ctx context.Context, boardID uint, settings domain.Settings) error {
	if err := m.writeErr(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[boardID] = settings
	return nil
}

func (m *MemoryStateRepository) CleanupBoardState(ctx context.Context, boardID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pixels, boardID)
	delete(m.gridSizes, boardID)
	delete(m.palettes, boardID)
	delete(m.settings, boardID)
	delete(m.opCounts, boardID)
	delete(m.snapTimes, boardID)
	return nil
}

func (m *MemoryStateRepository) IncrementOpCount(ctx context.Context, boardID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opCounts[boardID]++
	return m.opCounts[boardID], nil
}

func (m *MemoryStateRepository) GetOpCount(ctx context.Context, boardID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opCounts[boardID], nil
}

func (m *MemoryStateRepository) ResetOpCount(ctx context.Context, boardID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opCounts[boardID] = 0
	return nil
}

func (m *MemoryStateRepository) GetLastSnapshotTime(ctx context.Context, boardID uint) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapTimes[boardID], nil
}

func (m *MemoryStateRepository) SetLastSnapshotTime(ctx context.Context, boardID uint, timestamp time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapTimes[boardID] = timestamp
	return nil
}

func (m *MemoryStateRepository) PublishEvent(ctx context.Context, boardID uint, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.Published[boardID] = append(m.Published[boardID], buf)
	return nil
}
