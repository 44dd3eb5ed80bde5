package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/progress"
)

// ProgressResponse is the player's journey so far: current day, the
// meal diary and every clue collected.
type ProgressResponse struct {
	Progress *progress.Progress `json:"progress"`
	Meals    []meal.Record      `json:"meals"`
	Clues    []clue.Record      `json:"clues"`
}

// ProgressHandler serves player progress.
type ProgressHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(storage storage.Storage, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		storage: storage,
		logger:  logger,
	}
}

// NewGameRequest starts a fresh playthrough, discarding any earlier
// state the player had.
type NewGameRequest struct {
	PlayerID string `json:"player_id"`
}

// ServeHTTP handles GET /v1/progress/{player_id} and POST /v1/progress.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		h.newGame(w, r)
		return
	default:
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "Method not allowed. Only GET and POST are supported.",
		})
		return
	}

	playerID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/progress"), "/")
	if playerID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Player ID is required.",
		})
		return
	}

	ctx := r.Context()
	p, err := h.storage.LoadProgress(ctx, playerID)
	if err != nil {
		h.logger.Error("Failed to load progress", "player_id", playerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load progress.",
		})
		return
	}
	if p == nil {
		p = progress.New(playerID)
	}

	meals, err := h.storage.LoadMealRecords(ctx, playerID)
	if err != nil {
		h.logger.Error("Failed to load meal records", "player_id", playerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load meal records.",
		})
		return
	}

	clues, err := h.storage.LoadClues(ctx, playerID)
	if err != nil {
		h.logger.Error("Failed to load clues", "player_id", playerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load clues.",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ProgressResponse{
		Progress: p,
		Meals:    meals,
		Clues:    clues,
	})
}

// newGame wipes the player's state and seeds a day-one progress.
func (h *ProgressHandler) newGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid JSON in request body.",
		})
		return
	}
	if req.PlayerID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Player ID is required.",
		})
		return
	}

	ctx := r.Context()
	if err := h.storage.ResetPlayer(ctx, req.PlayerID); err != nil {
		h.logger.Error("Failed to reset player", "player_id", req.PlayerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to start a new game.",
		})
		return
	}

	p := progress.New(req.PlayerID)
	if err := h.storage.SaveProgress(ctx, p); err != nil {
		h.logger.Error("Failed to save progress", "player_id", req.PlayerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to start a new game.",
		})
		return
	}

	h.logger.Info("New game started", "player_id", req.PlayerID)
	writeJSON(w, h.logger, http.StatusCreated, ProgressResponse{
		Progress: p,
		Meals:    []meal.Record{},
		Clues:    []clue.Record{},
	})
}
