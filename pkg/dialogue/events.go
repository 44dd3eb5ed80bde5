package dialogue

import (
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/questions"
)

// EventType discriminates the events a session can receive. Player
// input and backend results arrive through the same Transition call, so
// the whole conversation is a single ordered event stream.
type EventType string

const (
	// Player-driven events.
	EventOpen          EventType = "open"
	EventPlayerMessage EventType = "player_message"
	EventChoice        EventType = "choice"
	EventSelectMeal    EventType = "select_meal"
	EventAnswer        EventType = "answer"
	EventAbandon       EventType = "abandon"

	// Results of previously issued effects.
	EventPersonaReply   EventType = "persona_reply"
	EventInterviewReply EventType = "interview_reply"
	EventSubmitResult   EventType = "submit_result"
)

// Choice is the player's answer to the "keep chatting or record a meal"
// offer.
type Choice string

const (
	ChoiceKeepChatting Choice = "keep_chatting"
	ChoiceRecordMeal   Choice = "record_meal"
)

// Event is one input to the state machine. Only the fields relevant to
// the event type are read.
type Event struct {
	Type EventType

	// Player input.
	Message  string
	Choice   Choice
	MealType meal.Type
	Answer   string // option value for fixed questions, free text otherwise

	// Context the engine supplies from player progress.
	GreetedToday   bool
	AvailableMeals []meal.Type

	// Backend result fields. Seq must echo the seq stamped on the
	// effect that requested the call.
	Seq          uint64
	Reply        string
	Greeting     bool // reply to the opening greeting, not a player message
	ReplyFailed  bool // backend unavailable; Reply holds the fallback line
	SessionToken string
	IsComplete   bool // interview backend says the interview is done
	Success      bool // submission result
	Retriable    bool // submission failed but may be retried
}

// EffectType discriminates the effects Transition asks its caller to
// execute.
type EffectType string

const (
	// EffectSay shows an NPC line to the player.
	EffectSay EffectType = "say"
	// EffectAskQuestion shows a scripted interview question.
	EffectAskQuestion EffectType = "ask_question"
	// EffectOfferChoice shows the keep-chatting / record-meal choice.
	EffectOfferChoice EffectType = "offer_choice"
	// EffectOfferMeals shows the remaining meal types for selection.
	EffectOfferMeals EffectType = "offer_meals"
	// EffectCallPersona requests a persona backend turn.
	EffectCallPersona EffectType = "call_persona"
	// EffectCallInterview requests an interview backend turn.
	EffectCallInterview EffectType = "call_interview"
	// EffectSubmitMeal requests the idempotent meal submission.
	EffectSubmitMeal EffectType = "submit_meal"
	// EffectEndSession tells the engine to discard the session.
	EffectEndSession EffectType = "end_session"
)

// Effect is one instruction for the engine.
type Effect struct {
	Type EffectType

	Line     string             // EffectSay
	Question questions.Question // EffectAskQuestion
	Prompt   string             // rendered question text
	Meals    []meal.Type        // EffectOfferMeals

	// Backend call parameters.
	UserMessage string
	Greeting    bool   // persona call opening the conversation
	Seq         uint64 // echo target for the result event
}
