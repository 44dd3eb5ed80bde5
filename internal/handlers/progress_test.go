package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/progress"
)

func TestProgressHandler(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewProgressHandler(store, testLogger())
	ctx := context.Background()

	p := progress.New("p1")
	p.CurrentDay = 2
	p.RecordMeal("village_head", 1)
	require.NoError(t, store.SaveProgress(ctx, p))
	require.NoError(t, store.SaveMealRecord(ctx, &meal.Record{
		PlayerID: "p1", Day: 1, NPCID: "village_head",
		MealType: meal.Dinner, RecordedAt: time.Now(),
	}))
	require.NoError(t, store.SaveClue(ctx, &clue.Record{
		PlayerID: "p1", NPCID: "village_head", Day: 1,
		Tier: clue.TierTrue, Text: "the truth", GrantedAt: time.Now(),
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/progress/p1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ProgressResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Progress.CurrentDay)
	require.Len(t, resp.Meals, 1)
	assert.Equal(t, meal.Dinner, resp.Meals[0].MealType)
	require.Len(t, resp.Clues, 1)
	assert.Equal(t, clue.TierTrue, resp.Clues[0].Tier)
}

func TestProgressHandler_NewPlayer(t *testing.T) {
	h := NewProgressHandler(storage.NewMockStorage(), testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/progress/nobody", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ProgressResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Progress.CurrentDay, "unknown players start on day one")
	assert.Empty(t, resp.Meals)
}

func TestProgressHandler_MissingPlayerID(t *testing.T) {
	h := NewProgressHandler(storage.NewMockStorage(), testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/progress/", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProgressHandler_NewGame(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewProgressHandler(store, testLogger())
	ctx := context.Background()

	p := progress.New("p1")
	p.CurrentDay = 5
	require.NoError(t, store.SaveProgress(ctx, p))
	require.NoError(t, store.SaveMealRecord(ctx, &meal.Record{
		PlayerID: "p1", Day: 1, NPCID: "village_head",
		MealType: meal.Breakfast, RecordedAt: time.Now(),
	}))

	rr := httptest.NewRecorder()
	body := strings.NewReader(`{"player_id":"p1"}`)
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/progress", body))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp ProgressResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Progress.CurrentDay)
	assert.Empty(t, resp.Meals)
	assert.Empty(t, resp.Clues)

	saved, err := store.LoadProgress(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.CurrentDay)

	meals, err := store.LoadMealRecords(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, meals, "old meal records are wiped")
}

func TestProgressHandler_NewGame_BadRequest(t *testing.T) {
	h := NewProgressHandler(storage.NewMockStorage(), testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/progress", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/progress", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNPCHandler(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewNPCHandler(store, testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/npcs?player_id=p1&lang=zh", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp NPCListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.NPCs, store.Catalog().Len())

	// Day order, with only day one reachable for a fresh player.
	assert.Equal(t, 1, resp.NPCs[0].Day)
	assert.True(t, resp.NPCs[0].Reachable)
	for _, n := range resp.NPCs[1:] {
		assert.False(t, n.Reachable, "npc %s should be locked", n.ID)
	}
	assert.NotEmpty(t, resp.NPCs[0].Name)
}

func TestNPCHandler_MissingPlayerID(t *testing.T) {
	h := NewNPCHandler(storage.NewMockStorage(), testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/npcs", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
