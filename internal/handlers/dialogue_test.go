package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/dialogue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestHandler(t *testing.T) (*DialogueHandler, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	eng := engine.New(store,
		services.NewMockPersonaBackend(),
		services.NewMockInterviewBackend(),
		nil,
		dialogue.DefaultConfig(),
		time.Second,
		testLogger())
	return NewDialogueHandler(eng, testLogger()), store
}

func postDialogue(t *testing.T, h *DialogueHandler, req DialogueRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/dialogue", bytes.NewReader(body))
	h.ServeHTTP(rr, r)
	return rr
}

func TestDialogueHandler_Open(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := postDialogue(t, h, DialogueRequest{
		PlayerID: "p1",
		Action:   ActionOpen,
		NPCID:    "village_head",
		Lang:     "en",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var reply engine.Reply
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&reply))
	assert.Equal(t, dialogue.PhaseFreeChat, reply.Phase)
	assert.NotEmpty(t, reply.Lines)
}

func TestDialogueHandler_Validation(t *testing.T) {
	tests := []struct {
		name           string
		request        DialogueRequest
		expectedStatus int
	}{
		{
			name:           "missing player id",
			request:        DialogueRequest{Action: ActionOpen, NPCID: "village_head"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "open without npc id",
			request:        DialogueRequest{PlayerID: "p1", Action: ActionOpen},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown action",
			request:        DialogueRequest{PlayerID: "p1", Action: "dance"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "message without session",
			request:        DialogueRequest{PlayerID: "p1", Action: ActionMessage, Message: "hi"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "locked npc",
			request:        DialogueRequest{PlayerID: "p1", Action: ActionOpen, NPCID: "baker"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown npc",
			request:        DialogueRequest{PlayerID: "p1", Action: ActionOpen, NPCID: "stranger"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rr := postDialogue(t, h, tt.request)
			assert.Equal(t, tt.expectedStatus, rr.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestDialogueHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/dialogue", nil)
	h.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestDialogueHandler_InvalidBody(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/dialogue", bytes.NewReader([]byte("{not json")))
	h.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDialogueHandler_EventOutOfPhase(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := postDialogue(t, h, DialogueRequest{
		PlayerID: "p1", Action: ActionOpen, NPCID: "village_head",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Answering during free chat does not fit the phase.
	rr = postDialogue(t, h, DialogueRequest{
		PlayerID: "p1", Action: ActionAnswer, Answer: "home_cooked",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
