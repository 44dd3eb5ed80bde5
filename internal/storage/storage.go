// Package storage persists the game's dynamic state in Redis and loads
// the static cast data from the filesystem.
package storage

import (
	"context"
	"errors"

	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/progress"
)

// ErrPersistence wraps storage failures. The submission gate surfaces
// it without marking the meal submitted, so a retry stays legitimate.
var ErrPersistence = errors.New("persistence error")

// Storage is the persistence boundary of the dialogue engine.
type Storage interface {
	services.HealthChecker
	services.Closer

	// Catalog returns the NPC cast, loaded from the data directory at
	// startup (built-in cast when no data files exist).
	Catalog() *npc.Catalog

	// Sessions. At most one session exists per player; loading a
	// missing session returns nil.
	SaveSession(ctx context.Context, s *dialogue.Session) error
	LoadSession(ctx context.Context, playerID string) (*dialogue.Session, error)
	DeleteSession(ctx context.Context, playerID string) error

	// Player progress. Loading a missing progress returns nil.
	SaveProgress(ctx context.Context, p *progress.Progress) error
	LoadProgress(ctx context.Context, playerID string) (*progress.Progress, error)

	// Meal records, keyed by (player, day, meal type).
	SaveMealRecord(ctx context.Context, r *meal.Record) error
	GetMealRecord(ctx context.Context, playerID string, day int, t meal.Type) (*meal.Record, error)
	LoadMealRecords(ctx context.Context, playerID string) ([]meal.Record, error)

	// Clue records.
	SaveClue(ctx context.Context, r *clue.Record) error
	LoadClues(ctx context.Context, playerID string) ([]clue.Record, error)

	// Final summary, written by the worker after day seven.
	SaveSummary(ctx context.Context, playerID string, s *services.Summary) error
	LoadSummary(ctx context.Context, playerID string) (*services.Summary, error)

	// ResetPlayer wipes all of a player's state for a fresh playthrough.
	ResetPlayer(ctx context.Context, playerID string) error
}
