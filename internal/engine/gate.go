package engine

import (
	"context"
	"sync"

	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/meal"
)

// SubmissionGate makes meal submission idempotent per (player, day,
// meal type). Concurrent submissions of the same key collapse into one
// write, a key that already persisted reports duplicate instead of
// writing again, and a failed write does not latch so a retry can
// still go through.
type SubmissionGate struct {
	store storage.Storage

	mu       sync.Mutex
	inFlight map[string]bool
	done     map[string]bool
}

// NewSubmissionGate creates a gate over the given storage.
func NewSubmissionGate(store storage.Storage) *SubmissionGate {
	return &SubmissionGate{
		store:    store,
		inFlight: make(map[string]bool),
		done:     make(map[string]bool),
	}
}

// Submit persists the record at most once. It returns accepted=true
// when this call wrote the record, accepted=false with a nil error when
// the record already exists or another submission of the same key is in
// flight, and an error when the write failed and may be retried.
func (g *SubmissionGate) Submit(ctx context.Context, rec *meal.Record) (accepted bool, err error) {
	key := rec.Key()

	g.mu.Lock()
	if g.done[key] || g.inFlight[key] {
		g.mu.Unlock()
		return false, nil
	}
	g.inFlight[key] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		if err == nil {
			g.done[key] = true
		}
		g.mu.Unlock()
	}()

	// The in-memory map is per process; the persisted record is the
	// source of truth across restarts.
	existing, err := g.store.GetMealRecord(ctx, rec.PlayerID, rec.Day, rec.MealType)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if err := g.store.SaveMealRecord(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}
