package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/progress"
)

const (
	// sessionTTL bounds abandoned sessions; a session that outlives it
	// was walked away from and holds no persisted meal data.
	sessionTTL = 2 * time.Hour

	// progressTTL keeps a playthrough alive between play sessions.
	progressTTL = 30 * 24 * time.Hour
)

// RedisStorage implements Storage using Redis for dynamic state and the
// filesystem (data directory) for the static cast.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	catalog *npc.Catalog
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage connects the storage layer and loads the cast from
// dataDir. A missing data directory falls back to the built-in cast.
func NewRedisStorage(redisURL, dataDir string, logger *slog.Logger) (*RedisStorage, error) {
	catalog, err := LoadCatalog(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return &RedisStorage{
		client:  redis.NewClient(&redis.Options{Addr: redisURL}),
		logger:  logger,
		catalog: catalog,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

func (r *RedisStorage) Catalog() *npc.Catalog {
	return r.catalog
}

// Key layout. All dynamic state is namespaced per player.

func sessionKey(playerID string) string  { return "session:" + playerID }
func progressKey(playerID string) string { return "progress:" + playerID }
func mealsKey(playerID string) string    { return "meals:" + playerID }
func cluesKey(playerID string) string    { return "clues:" + playerID }
func summaryKey(playerID string) string  { return "summary:" + playerID }

// Sessions

func (r *RedisStorage) SaveSession(ctx context.Context, s *dialogue.Session) error {
	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.PlayerID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("%w: failed to save session: %v", ErrPersistence, err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, playerID string) (*dialogue.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(playerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrPersistence, err)
	}
	var s dialogue.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, playerID string) error {
	if err := r.client.Del(ctx, sessionKey(playerID)).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete session: %v", ErrPersistence, err)
	}
	return nil
}

// Progress

func (r *RedisStorage) SaveProgress(ctx context.Context, p *progress.Progress) error {
	p.UpdatedAt = time.Now()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := r.client.Set(ctx, progressKey(p.PlayerID), data, progressTTL).Err(); err != nil {
		return fmt.Errorf("%w: failed to save progress: %v", ErrPersistence, err)
	}
	return nil
}

func (r *RedisStorage) LoadProgress(ctx context.Context, playerID string) (*progress.Progress, error) {
	data, err := r.client.Get(ctx, progressKey(playerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load progress: %v", ErrPersistence, err)
	}
	var p progress.Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return &p, nil
}

// Meal records, stored as a per-player hash keyed by "day:mealtype".

func mealField(day int, t meal.Type) string {
	return fmt.Sprintf("%d:%s", day, t)
}

func (r *RedisStorage) SaveMealRecord(ctx context.Context, rec *meal.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal meal record: %w", err)
	}
	if err := r.client.HSet(ctx, mealsKey(rec.PlayerID), mealField(rec.Day, rec.MealType), data).Err(); err != nil {
		return fmt.Errorf("%w: failed to save meal record: %v", ErrPersistence, err)
	}
	return nil
}

func (r *RedisStorage) GetMealRecord(ctx context.Context, playerID string, day int, t meal.Type) (*meal.Record, error) {
	data, err := r.client.HGet(ctx, mealsKey(playerID), mealField(day, t)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load meal record: %v", ErrPersistence, err)
	}
	var rec meal.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal record: %w", err)
	}
	return &rec, nil
}

func (r *RedisStorage) LoadMealRecords(ctx context.Context, playerID string) ([]meal.Record, error) {
	entries, err := r.client.HGetAll(ctx, mealsKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load meal records: %v", ErrPersistence, err)
	}
	records := make([]meal.Record, 0, len(entries))
	for field, data := range entries {
		var rec meal.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal record %s: %w", field, err)
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].MealType.Ordinal() < records[j].MealType.Ordinal()
	})
	return records, nil
}

// Clues, stored as a per-player hash keyed by "npc:tier".

func (r *RedisStorage) SaveClue(ctx context.Context, rec *clue.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal clue: %w", err)
	}
	field := fmt.Sprintf("%s:%s", rec.NPCID, rec.Tier)
	if err := r.client.HSet(ctx, cluesKey(rec.PlayerID), field, data).Err(); err != nil {
		return fmt.Errorf("%w: failed to save clue: %v", ErrPersistence, err)
	}
	return nil
}

func (r *RedisStorage) LoadClues(ctx context.Context, playerID string) ([]clue.Record, error) {
	entries, err := r.client.HGetAll(ctx, cluesKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load clues: %v", ErrPersistence, err)
	}
	records := make([]clue.Record, 0, len(entries))
	for field, data := range entries {
		var rec clue.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal clue %s: %w", field, err)
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].GrantedAt.Before(records[j].GrantedAt)
	})
	return records, nil
}

// ResetPlayer removes every key the player owns in one round trip.
func (r *RedisStorage) ResetPlayer(ctx context.Context, playerID string) error {
	keys := []string{
		sessionKey(playerID),
		progressKey(playerID),
		mealsKey(playerID),
		cluesKey(playerID),
		summaryKey(playerID),
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: failed to reset player: %v", ErrPersistence, err)
	}
	return nil
}

// Final summary

func (r *RedisStorage) SaveSummary(ctx context.Context, playerID string, s *services.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := r.client.Set(ctx, summaryKey(playerID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to save summary: %v", ErrPersistence, err)
	}
	return nil
}

func (r *RedisStorage) LoadSummary(ctx context.Context, playerID string) (*services.Summary, error) {
	data, err := r.client.Get(ctx, summaryKey(playerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load summary: %v", ErrPersistence, err)
	}
	var s services.Summary
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &s, nil
}
