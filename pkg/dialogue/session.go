// Package dialogue implements the conversation state machine that
// drives free chat, meal selection, the fixed questionnaire and the
// free-form meal interview.
//
// The machine is pure: Transition mutates only the session it is given
// and returns effects (backend calls, lines to show, questions to ask)
// for the caller to execute. Network results are fed back in as events,
// which keeps every transition testable without a live backend.
package dialogue

import (
	"time"

	"github.com/google/uuid"
	"github.com/sunvale/sevendays/pkg/chat"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/questions"
)

// Phase is the dialogue phase of a session. Exactly one phase is active
// per open session.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseFreeChat          Phase = "free_chat"
	PhaseMealSelection     Phase = "meal_selection"
	PhaseFixedQuestions    Phase = "fixed_questions"
	PhaseFreeFormInterview Phase = "free_form_interview"
	PhaseCompleted         Phase = "completed"
)

// Session is the full state of one conversation with one NPC. It is a
// plain serializable value: the engine persists it between events and
// at most one session exists per player at a time.
type Session struct {
	ID       uuid.UUID `json:"id"`
	PlayerID string    `json:"player_id"`
	NPCID    string    `json:"npc_id"`
	Day      int       `json:"day"`
	Lang     lang.Lang `json:"lang"`

	Phase Phase `json:"phase"`

	// Seq increases on every transition that issues an asynchronous
	// effect. A result event carrying an older seq is stale and gets
	// discarded instead of applied.
	Seq uint64 `json:"seq"`

	FreeChatTurns  int  `json:"free_chat_turns"`
	InterviewTurns int  `json:"interview_turns"`
	OfferPending   bool `json:"offer_pending,omitempty"`
	GuidanceGiven  bool `json:"guidance_given,omitempty"`

	MealType          meal.Type    `json:"meal_type,omitempty"`
	CurrentQuestion   questions.ID `json:"current_question,omitempty"`
	NeedsTimeFollowUp bool         `json:"needs_time_follow_up,omitempty"`
	Answers           meal.Answers `json:"answers"`

	// PersonaToken is the opaque conversation token of the persona
	// backend, threaded through every free-chat call.
	PersonaToken string `json:"persona_token,omitempty"`

	// InterviewRetried marks that the one retry allowed after an
	// interview backend failure has been spent.
	InterviewRetried bool `json:"interview_retried,omitempty"`

	// SubmitAttempts counts failed submission attempts.
	SubmitAttempts int `json:"submit_attempts,omitempty"`

	// AwaitingSubmit is set while a submission effect is outstanding.
	AwaitingSubmit bool `json:"awaiting_submit,omitempty"`

	Transcript chat.Transcript `json:"transcript,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession opens an idle session for a player and NPC.
func NewSession(playerID, npcID string, day int, l lang.Lang) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		PlayerID:  playerID,
		NPCID:     npcID,
		Day:       day,
		Lang:      l,
		Phase:     PhaseIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// nextSeq advances the staleness counter and returns the new value for
// stamping an asynchronous effect.
func (s *Session) nextSeq() uint64 {
	s.Seq++
	return s.Seq
}

// Done reports whether the session has reached its terminal phase.
func (s *Session) Done() bool {
	return s.Phase == PhaseCompleted
}

// say appends an NPC line to the transcript.
func (s *Session) say(line string) {
	s.Transcript = s.Transcript.Append(chat.ChatRoleAgent, line)
}

// hear appends a player line to the transcript.
func (s *Session) hear(line string) {
	s.Transcript = s.Transcript.Append(chat.ChatRoleUser, line)
}
