package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// DefaultKeyPrefix namespaces every board key ("pas" = pixel art studio).
const DefaultKeyPrefix = "pas:"

// RedisStateRepository is the Redis implementation of
// repository.StateRepository. Every editor concern persists under its own
// key so a corrupt entry only costs that one concern its saved value.
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository creates a RedisStateRepository.
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStateRepository{client: client, keyPrefix: keyPrefix}
}

// --- key helpers ---

func (r *RedisStateRepository) pixelsKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:pixels", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) sizeKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:size", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) paletteKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:palette", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) colorKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:color", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) toolKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:tool", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) pixelSizeKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:pixel_size", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) showGridKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:show_grid", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) opCountKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:op_count", r.keyPrefix, boardID)
}

func (r *RedisStateRepository) lastSnapshotKey(boardID uint) string {
	return fmt.Sprintf("%sboard:%d:last_snapshot", r.keyPrefix, boardID)
}

// EventsChannel returns the pub/sub channel carrying board events. The hub
// subscribes to the same name, so keep the two in sync.
func EventsChannel(keyPrefix string, boardID uint) string {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return fmt.Sprintf("%sboard:%d:events", keyPrefix, boardID)
}

// --- pixel buffer ---

func (r *RedisStateRepository) GetPixels(ctx context.Context, boardID uint) (domain.PixelBuffer, error) {
	key := r.pixelsKey(boardID)
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get pixels for board %d from %s: %w", boardID, key, err)
	}
	var pixels domain.PixelBuffer
	if err := json.Unmarshal([]byte(raw), &pixels); err != nil {
		// Corrupt entry counts as absent; the caller falls back to defaults.
		logrus.WithError(err).Warnf("redis: corrupt pixel buffer for board %d, treating as missing", boardID)
		return nil, repository.ErrNotFound
	}
	return pixels, nil
}

func (r *RedisStateRepository) SavePixels(ctx context.Context, boardID uint, pixels domain.PixelBuffer) error {
	bytes, err := json.Marshal(pixels)
	if err != nil {
		return fmt.Errorf("redis: marshal pixels for board %d: %w", boardID, err)
	}
	if err := r.client.Set(ctx, r.pixelsKey(boardID), bytes, 0).Err(); err != nil {
		return fmt.Errorf("redis: save pixels for board %d: %w", boardID, err)
	}
	return nil
}

// --- grid size ---

func (r *RedisStateRepository) GetGridSize(ctx context.Context, boardID uint) (int, error) {
	key := r.sizeKey(boardID)
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("redis: get grid size for board %d from %s: %w", boardID, key, err)
	}
	n, parseErr := strconv.Atoi(raw)
	if parseErr != nil {
		logrus.Warnf("redis: corrupt grid size %q for board %d, treating as missing", raw, boardID)
		return 0, repository.ErrNotFound
	}
	return n, nil
}

func (r *RedisStateRepository) SaveGridSize(ctx context.Context, boardID uint, size int) error {
	if err := r.client.Set(ctx, r.sizeKey(boardID), strconv.Itoa(size), 0).Err(); err != nil {
		return fmt.Errorf("redis: save grid size for board %d: %w", boardID, err)
	}
	return nil
}

// --- palette ---

func (r *RedisStateRepository) GetPalette(ctx context.Context, boardID uint) ([]string, error) {
	key := r.paletteKey(boardID)
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get palette for board %d from %s: %w", boardID, key, err)
	}
	var colors []string
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		logrus.WithError(err).Warnf("redis: corrupt palette for board %d, treating as missing", boardID)
		return nil, repository.ErrNotFound
	}
	return colors, nil
}

func (r *RedisStateRepository) SavePalette(ctx context.Context, boardID uint, colors []string) error {
	bytes, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("redis: marshal palette for board %d: %w", boardID, err)
	}
	if err := r.client.Set(ctx, r.paletteKey(boardID), bytes, 0).Err(); err != nil {
		return fmt.Errorf("redis: save palette for board %d: %w", boardID, err)
	}
	return nil
}

// --- scalar settings ---

// GetSettings reads the four per-field keys in one MGET. Each missing or
// corrupt field silently takes its default; only a transport failure errors.
func (r *RedisStateRepository) GetSettings(ctx context.Context, boardID uint) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	values, err := r.client.MGet(ctx,
		r.colorKey(boardID),
		r.toolKey(boardID),
		r.pixelSizeKey(boardID),
		r.showGridKey(boardID),
	).Result()
	if err != nil {
		return settings, fmt.Errorf("redis: get settings for board %d: %w", boardID, err)
	}

	if s, ok := values[0].(string); ok && s != "" {
		settings.Color = s
	}
	if s, ok := values[1].(string); ok {
		if tool := domain.Tool(s); tool.Valid() {
			settings.Tool = tool
		}
	}
	if s, ok := values[2].(string); ok {
		if n, parseErr := strconv.Atoi(s); parseErr == nil {
			settings.PixelSize = domain.ClampPixelSize(n)
		}
	}
	if s, ok := values[3].(string); ok {
		settings.ShowGrid = s == "1"
	}
	return settings, nil
}

func (r *RedisStateRepository) SaveSettings(ctx context.Context, boardID uint, settings domain.Settings) error {
	showGrid := "0"
	if settings.ShowGrid {
		showGrid = "1"
	}
	err := r.client.MSet(ctx,
		r.colorKey(boardID), settings.Color,
		r.toolKey(boardID), string(settings.Tool),
		r.pixelSizeKey(boardID), strconv.Itoa(settings.PixelSize),
		r.showGridKey(boardID), showGrid,
	).Err()
	if err != nil {
		return fmt.Errorf("redis: save settings for board %d: %w", boardID, err)
	}
	return nil
}

// CleanupBoardState deletes every key of the board.
func (r *RedisStateRepository) CleanupBoardState(ctx context.Context, boardID uint) error {
	keys := []string{
		r.pixelsKey(boardID),
		r.sizeKey(boardID),
		r.paletteKey(boardID),
		r.colorKey(boardID),
		r.toolKey(boardID),
		r.pixelSizeKey(boardID),
		r.showGridKey(boardID),
		r.opCountKey(boardID),
		r.lastSnapshotKey(boardID),
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: cleanup state for board %d: %w", boardID, err)
	}
	return nil
}

// --- autosave bookkeeping ---

func (r *RedisStateRepository) IncrementOpCount(ctx context.Context, boardID uint) (int64, error) {
	key := r.opCountKey(boardID)
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: increment op count for board %d: %w", boardID, err)
	}
	return incr.Val(), nil
}

func (r *RedisStateRepository) GetOpCount(ctx context.Context, boardID uint) (int64, error) {
	raw, err := r.client.Get(ctx, r.opCountKey(boardID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis: get op count for board %d: %w", boardID, err)
	}
	count, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		return 0, fmt.Errorf("redis: parse op count %q for board %d: %w", raw, boardID, parseErr)
	}
	return count, nil
}

func (r *RedisStateRepository) ResetOpCount(ctx context.Context, boardID uint) error {
	if err := r.client.Set(ctx, r.opCountKey(boardID), "0", 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("redis: reset op count for board %d: %w", boardID, err)
	}
	return nil
}

func (r *RedisStateRepository) GetLastSnapshotTime(ctx context.Context, boardID uint) (time.Time, error) {
	raw, err := r.client.Get(ctx, r.lastSnapshotKey(boardID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("redis: get last snapshot time for board %d: %w", boardID, err)
	}
	ts, parseErr := time.Parse(time.RFC3339Nano, raw)
	if parseErr != nil {
		return time.Time{}, fmt.Errorf("redis: parse last snapshot time %q for board %d: %w", raw, boardID, parseErr)
	}
	return ts, nil
}

func (r *RedisStateRepository) SetLastSnapshotTime(ctx context.Context, boardID uint, timestamp time.Time, ttl time.Duration) error {
	value := timestamp.UTC().Format(time.RFC3339Nano)
	if err := r.client.Set(ctx, r.lastSnapshotKey(boardID), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set last snapshot time for board %d: %w", boardID, err)
	}
	return nil
}

// --- pub/sub ---

func (r *RedisStateRepository) PublishEvent(ctx context.Context, boardID uint, payload []byte) error {
	channel := EventsChannel(r.keyPrefix, boardID)
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish event for board %d on %s: %w", boardID, channel, err)
	}
	return nil
}
