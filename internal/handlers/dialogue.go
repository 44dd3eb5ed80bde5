// Package handlers exposes the dialogue engine over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/questions"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DialogueAction selects the engine operation for a dialogue request.
type DialogueAction string

const (
	ActionOpen       DialogueAction = "open"
	ActionMessage    DialogueAction = "message"
	ActionChoice     DialogueAction = "choice"
	ActionSelectMeal DialogueAction = "select_meal"
	ActionAnswer     DialogueAction = "answer"
	ActionAbandon    DialogueAction = "abandon"
)

// DialogueRequest is one player event. Only the fields relevant to the
// action are read.
type DialogueRequest struct {
	PlayerID string         `json:"player_id"`
	Action   DialogueAction `json:"action"`

	NPCID    string          `json:"npc_id,omitempty"`    // open
	Lang     string          `json:"lang,omitempty"`      // open, Accept-Language style
	Message  string          `json:"message,omitempty"`   // message
	Choice   dialogue.Choice `json:"choice,omitempty"`    // choice
	MealType meal.Type       `json:"meal_type,omitempty"` // select_meal
	Answer   string          `json:"answer,omitempty"`    // answer
}

// DialogueHandler handles dialogue events.
type DialogueHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewDialogueHandler creates a new dialogue handler.
func NewDialogueHandler(eng *engine.Engine, logger *slog.Logger) *DialogueHandler {
	return &DialogueHandler{
		engine: eng,
		logger: logger,
	}
}

// ServeHTTP handles POST /v1/dialogue.
func (h *DialogueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for dialogue endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "Method not allowed. Only POST is supported.",
		})
		return
	}

	var req DialogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body. Expected JSON with 'player_id' and 'action' fields.",
		})
		return
	}
	if req.PlayerID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "player_id cannot be empty.",
		})
		return
	}

	ctx := r.Context()
	var reply *engine.Reply
	var err error

	switch req.Action {
	case ActionOpen:
		if req.NPCID == "" {
			writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
				Error: "npc_id is required to open a dialogue.",
			})
			return
		}
		reply, err = h.engine.Open(ctx, req.PlayerID, req.NPCID, lang.Resolve(req.Lang))
	case ActionMessage:
		reply, err = h.engine.Message(ctx, req.PlayerID, req.Message)
	case ActionChoice:
		reply, err = h.engine.Choose(ctx, req.PlayerID, req.Choice)
	case ActionSelectMeal:
		reply, err = h.engine.SelectMeal(ctx, req.PlayerID, req.MealType)
	case ActionAnswer:
		reply, err = h.engine.Answer(ctx, req.PlayerID, req.Answer)
	case ActionAbandon:
		reply, err = h.engine.Abandon(ctx, req.PlayerID)
	default:
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{
			Error: "Unknown action.",
		})
		return
	}

	if err != nil {
		h.writeError(w, r, req, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, reply)
}

// writeError maps engine errors onto HTTP status codes. Validation
// problems are the player's to fix; everything else is ours.
func (h *DialogueHandler) writeError(w http.ResponseWriter, r *http.Request, req DialogueRequest, err error) {
	switch {
	case errors.Is(err, dialogue.ErrValidation):
		h.logger.Warn("Dialogue validation failed",
			"player_id", req.PlayerID, "action", req.Action, "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, engine.ErrNoSession):
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{
			Error: "No open session. Open a dialogue first.",
		})

	case errors.Is(err, engine.ErrNPCLocked):
		writeJSON(w, h.logger, http.StatusConflict, ErrorResponse{
			Error: "This villager is not ready to talk to you yet.",
		})

	case errors.Is(err, npc.ErrUnknownNPC):
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{
			Error: "Unknown NPC.",
		})

	case errors.Is(err, questions.ErrUnknownQuestion):
		h.logger.Error("Question sequencing error",
			"player_id", req.PlayerID, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal error. Please try again.",
		})

	default:
		h.logger.Error("Dialogue event failed",
			"player_id", req.PlayerID, "action", req.Action,
			"path", r.URL.Path, "error", err)
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal error. Please try again.",
		})
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
