package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunvale/sevendays/internal/storage"
)

// SummaryHandler serves the final summary generated by the worker.
type SummaryHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(storage storage.Storage, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles GET /v1/summary/{player_id}. A 404 means the worker
// has not produced the summary yet; clients poll.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "Method not allowed. Only GET is supported.",
		})
		return
	}

	playerID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/summary"), "/")
	if playerID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Player ID is required.",
		})
		return
	}

	s, err := h.storage.LoadSummary(r.Context(), playerID)
	if err != nil {
		h.logger.Error("Failed to load summary", "player_id", playerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load summary.",
		})
		return
	}
	if s == nil {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{
			Error: "Summary not ready yet.",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, s)
}
