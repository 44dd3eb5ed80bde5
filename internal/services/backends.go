// Package services holds the adapters to the two conversational AI
// backends: the persona backend for free-roam chat and the interview
// backend for structured meal Q&A and the final summary.
package services

import (
	"context"
	"errors"

	"github.com/sunvale/sevendays/pkg/chat"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
)

// ErrBackendUnavailable wraps network errors, timeouts and non-2xx
// responses from either AI backend. The engine recovers from it locally
// with a fallback line; it never reaches the player as an error.
var ErrBackendUnavailable = errors.New("backend unavailable")

// PersonaRequest is one free-chat turn.
type PersonaRequest struct {
	NPC     *npc.NPC
	Lang    lang.Lang
	Message string
	// Greeting marks the turn that opens the conversation; Message is
	// empty and the NPC speaks first.
	Greeting bool
	// SessionToken is opaque to the engine and must be threaded through
	// subsequent calls of the same conversation.
	SessionToken string
	Transcript   chat.Transcript
}

// PersonaResponse is the persona backend's reply.
type PersonaResponse struct {
	Text         string
	SessionToken string
}

// PersonaBackend produces in-character free-roam chat turns.
type PersonaBackend interface {
	StartPersonaChat(ctx context.Context, req PersonaRequest) (*PersonaResponse, error)
}

// InterviewRequest is one free-form meal interview turn with full
// context.
type InterviewRequest struct {
	NPC          *npc.NPC
	Lang         lang.Lang
	MealType     meal.Type
	FixedAnswers meal.Answers
	Transcript   chat.Transcript
	UserMessage  string
	TurnIndex    int
}

// InterviewResponse is the interview backend's reply. IsComplete is set
// when the backend itself declares the interview finished.
type InterviewResponse struct {
	Text       string
	IsComplete bool
}

// SummaryRequest asks for the end-of-game artifacts over the whole
// meal diary.
type SummaryRequest struct {
	PlayerID string
	Lang     lang.Lang
	Records  []meal.Record
}

// Summary is the final multi-day result shown after day seven.
type Summary struct {
	Letter          string `json:"letter"`
	SevenDaySummary string `json:"seven_day_summary"`
	HealthNotes     string `json:"health_notes"`
	Recipe          string `json:"recipe"`
}

// InterviewBackend extracts structured meal details through free-form
// Q&A and generates the final summary.
type InterviewBackend interface {
	StartInterview(ctx context.Context, req InterviewRequest) (*InterviewResponse, error)
	GenerateFinalSummary(ctx context.Context, req SummaryRequest) (*Summary, error)
}

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}
