package handlers

import (
	"log/slog"
	"net/http"

	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/progress"
)

// NPCSummary is one cast member as shown to a player: localized name,
// day of appearance and whether the player can talk to them yet.
type NPCSummary struct {
	ID        string `json:"id"`
	Day       int    `json:"day"`
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	Completed bool   `json:"completed"`
}

// NPCListResponse lists the cast in day order.
type NPCListResponse struct {
	NPCs []NPCSummary `json:"npcs"`
}

// NPCHandler serves the cast list.
type NPCHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewNPCHandler creates a new NPC handler.
func NewNPCHandler(storage storage.Storage, logger *slog.Logger) *NPCHandler {
	return &NPCHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles GET /v1/npcs?player_id=...&lang=...
func (h *NPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "Method not allowed. Only GET is supported.",
		})
		return
	}

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "player_id query parameter is required.",
		})
		return
	}
	l := lang.Resolve(r.URL.Query().Get("lang"))

	p, err := h.storage.LoadProgress(r.Context(), playerID)
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

	cat := h.storage.Catalog()
	resp := NPCListResponse{NPCs: make([]NPCSummary, 0, cat.Len())}
	for _, n := range cat.All() {
		reachable, err := p.CanInteract(cat, n.ID)
		if err != nil {
			h.logger.Error("Failed to check interaction gate", "npc_id", n.ID, "error", err)
			writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to build NPC list.",
			})
			return
		}
		resp.NPCs = append(resp.NPCs, NPCSummary{
			ID:        n.ID,
			Day:       n.Day,
			Name:      n.Name.Pick(l),
			Reachable: reachable,
			Completed: p.NPCState(n.ID).InteractionComplete,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
