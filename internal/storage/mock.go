package storage

import (
	"context"
	"sync"

	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/progress"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	mu        sync.RWMutex
	catalog   *npc.Catalog
	sessions  map[string]*dialogue.Session
	progress  map[string]*progress.Progress
	meals     map[string]*meal.Record
	clues     map[string][]clue.Record
	summaries map[string]*services.Summary

	pingError     error
	saveMealError error
	SaveMealCalls int
}

var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a mock over the built-in cast.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		catalog:   npc.DefaultCatalog(),
		sessions:  make(map[string]*dialogue.Session),
		progress:  make(map[string]*progress.Progress),
		meals:     make(map[string]*meal.Record),
		clues:     make(map[string][]clue.Record),
		summaries: make(map[string]*services.Summary),
	}
}

// SetPingError configures the mock to fail health checks.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveMealError configures SaveMealRecord to fail with err.
func (m *MockStorage) SetSaveMealError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveMealError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) Catalog() *npc.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

func (m *MockStorage) SaveSession(ctx context.Context, s *dialogue.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.PlayerID] = s
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, playerID string) (*dialogue.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[playerID], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, playerID)
	return nil
}

func (m *MockStorage) SaveProgress(ctx context.Context, p *progress.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[p.PlayerID] = p
	return nil
}

func (m *MockStorage) LoadProgress(ctx context.Context, playerID string) (*progress.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.progress[playerID], nil
}

func (m *MockStorage) SaveMealRecord(ctx context.Context, r *meal.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveMealCalls++
	if m.saveMealError != nil {
		return m.saveMealError
	}
	m.meals[r.Key()] = r
	return nil
}

func (m *MockStorage) GetMealRecord(ctx context.Context, playerID string, day int, t meal.Type) (*meal.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meals[meal.RecordKey(playerID, day, t)], nil
}

func (m *MockStorage) LoadMealRecords(ctx context.Context, playerID string) ([]meal.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []meal.Record
	for _, r := range m.meals {
		if r.PlayerID == playerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockStorage) SaveClue(ctx context.Context, r *clue.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clues[r.PlayerID] = append(m.clues[r.PlayerID], *r)
	return nil
}

func (m *MockStorage) LoadClues(ctx context.Context, playerID string) ([]clue.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]clue.Record(nil), m.clues[playerID]...), nil
}

func (m *MockStorage) SaveSummary(ctx context.Context, playerID string, s *services.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[playerID] = s
	return nil
}

func (m *MockStorage) LoadSummary(ctx context.Context, playerID string) (*services.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summaries[playerID], nil
}

func (m *MockStorage) ResetPlayer(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, playerID)
	delete(m.progress, playerID)
	delete(m.summaries, playerID)
	delete(m.clues, playerID)
	for key, r := range m.meals {
		if r.PlayerID == playerID {
			delete(m.meals, key)
		}
	}
	return nil
}
