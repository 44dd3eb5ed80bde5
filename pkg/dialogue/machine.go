package dialogue

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/questions"
)

// ErrValidation marks bad player input or an event that does not fit
// the session's phase. It is surfaced before any network call is made
// and never mutates the session.
var ErrValidation = errors.New("validation error")

// Config holds the machine's tunables. The thresholds are heuristics,
// not invariants, and are wired to env config.
type Config struct {
	// FreeChatTurnThreshold is the number of free-chat turns after
	// which the player is offered the recording choice.
	FreeChatTurnThreshold int
	// InterviewTurnCap is the hard cap on interview backend turns.
	InterviewTurnCap int
	// MinContentAnswerLen is the minimum rune length for a free-text
	// answer to count as meaningful content.
	MinContentAnswerLen int
	// SubmitRetryLimit bounds automatic submission retries.
	SubmitRetryLimit int
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		FreeChatTurnThreshold: 3,
		InterviewTurnCap:      6,
		MinContentAnswerLen:   3,
		SubmitRetryLimit:      3,
	}
}

// Machine drives sessions through their phases. It holds only static
// rule data and is safe for concurrent use across sessions.
type Machine struct {
	cat     *npc.Catalog
	endings npc.PhraseRules
	cfg     Config
}

// NewMachine builds a machine over a cast catalog, an ending-phrase
// rule table and tuning config.
func NewMachine(cat *npc.Catalog, endings npc.PhraseRules, cfg Config) *Machine {
	if cfg.FreeChatTurnThreshold <= 0 {
		cfg.FreeChatTurnThreshold = DefaultConfig().FreeChatTurnThreshold
	}
	if cfg.InterviewTurnCap <= 0 {
		cfg.InterviewTurnCap = DefaultConfig().InterviewTurnCap
	}
	if cfg.MinContentAnswerLen <= 0 {
		cfg.MinContentAnswerLen = DefaultConfig().MinContentAnswerLen
	}
	if cfg.SubmitRetryLimit <= 0 {
		cfg.SubmitRetryLimit = DefaultConfig().SubmitRetryLimit
	}
	return &Machine{cat: cat, endings: endings, cfg: cfg}
}

// Transition applies one event to a session and returns the effects to
// execute. Stale backend results (wrong seq or phase) are discarded
// with no effects and no error.
func (m *Machine) Transition(s *Session, ev Event) ([]Effect, error) {
	switch ev.Type {
	case EventOpen:
		return m.open(s, ev)
	case EventPlayerMessage:
		return m.playerMessage(s, ev)
	case EventPersonaReply:
		return m.personaReply(s, ev)
	case EventChoice:
		return m.choice(s, ev)
	case EventSelectMeal:
		return m.selectMeal(s, ev)
	case EventAnswer:
		return m.answer(s, ev)
	case EventInterviewReply:
		return m.interviewReply(s, ev)
	case EventSubmitResult:
		return m.submitResult(s, ev)
	case EventAbandon:
		return []Effect{{Type: EffectEndSession}}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, ev.Type)
	}
}

func (m *Machine) open(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseIdle {
		return nil, fmt.Errorf("%w: session already open (phase %s)", ErrValidation, s.Phase)
	}
	if _, err := m.cat.Get(s.NPCID); err != nil {
		return nil, err
	}

	// All of today's meals recorded with this NPC: terminal greeting.
	if len(ev.AvailableMeals) == 0 {
		s.Phase = PhaseCompleted
		line := lineComeBackTomorrow.Pick(s.Lang)
		s.say(line)
		return []Effect{
			{Type: EffectSay, Line: line},
			{Type: EffectEndSession},
		}, nil
	}

	if ev.GreetedToday {
		// Second visit today: skip the chit-chat.
		s.Phase = PhaseMealSelection
		line := lineShortGreeting.Pick(s.Lang)
		s.say(line)
		return []Effect{
			{Type: EffectSay, Line: line},
			{Type: EffectOfferMeals, Meals: ev.AvailableMeals},
		}, nil
	}

	s.Phase = PhaseFreeChat
	return []Effect{
		{Type: EffectCallPersona, Greeting: true, Seq: s.nextSeq()},
	}, nil
}

func (m *Machine) playerMessage(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseFreeChat {
		return nil, fmt.Errorf("%w: message outside free chat (phase %s)", ErrValidation, s.Phase)
	}
	if s.OfferPending {
		return nil, fmt.Errorf("%w: answer the pending choice first", ErrValidation)
	}
	msg := strings.TrimSpace(ev.Message)
	if msg == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	s.hear(msg)
	return []Effect{
		{Type: EffectCallPersona, UserMessage: msg, Seq: s.nextSeq()},
	}, nil
}

func (m *Machine) personaReply(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseFreeChat || ev.Seq != s.Seq {
		return nil, nil // stale result, discard
	}
	n, err := m.cat.Get(s.NPCID)
	if err != nil {
		return nil, err
	}

	if ev.SessionToken != "" {
		s.PersonaToken = ev.SessionToken
	}

	s.say(ev.Reply)
	// The opening greeting is not a player message and does not count
	// toward the offer threshold.
	if !ev.Greeting {
		s.FreeChatTurns++
	}
	effects := []Effect{{Type: EffectSay, Line: ev.Reply}}

	// Fallback lines never carry trigger phrases; the turn counter
	// still advances so a dead backend cannot trap the player in chat.
	triggered := !ev.ReplyFailed && n.TriggeredBy(s.Lang, ev.Reply)
	if triggered || s.FreeChatTurns >= m.cfg.FreeChatTurnThreshold {
		s.OfferPending = true
		effects = append(effects, Effect{Type: EffectOfferChoice})
	}
	return effects, nil
}

func (m *Machine) choice(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseFreeChat || !s.OfferPending {
		return nil, fmt.Errorf("%w: no choice is pending", ErrValidation)
	}

	switch ev.Choice {
	case ChoiceKeepChatting:
		s.OfferPending = false
		s.FreeChatTurns = 0
		line := lineKeepChatting.Pick(s.Lang)
		s.say(line)
		return []Effect{{Type: EffectSay, Line: line}}, nil

	case ChoiceRecordMeal:
		s.OfferPending = false
		if len(ev.AvailableMeals) == 0 {
			s.Phase = PhaseCompleted
			line := lineComeBackTomorrow.Pick(s.Lang)
			s.say(line)
			return []Effect{
				{Type: EffectSay, Line: line},
				{Type: EffectEndSession},
			}, nil
		}
		s.Phase = PhaseMealSelection
		line := lineMealPrompt.Pick(s.Lang)
		s.say(line)
		return []Effect{
			{Type: EffectSay, Line: line},
			{Type: EffectOfferMeals, Meals: ev.AvailableMeals},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown choice %q", ErrValidation, ev.Choice)
	}
}

func (m *Machine) selectMeal(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseMealSelection {
		return nil, fmt.Errorf("%w: meal selection outside its phase (phase %s)", ErrValidation, s.Phase)
	}
	if !ev.MealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrValidation, ev.MealType)
	}
	available := false
	for _, t := range ev.AvailableMeals {
		if t == ev.MealType {
			available = true
			break
		}
	}
	if !available {
		return nil, fmt.Errorf("%w: %s already recorded today", ErrValidation, ev.MealType)
	}

	s.MealType = ev.MealType
	s.Phase = PhaseFixedQuestions
	s.CurrentQuestion = questions.First()
	return m.ask(s, s.CurrentQuestion)
}

func (m *Machine) answer(s *Session, ev Event) ([]Effect, error) {
	switch s.Phase {
	case PhaseFixedQuestions:
		return m.fixedAnswer(s, ev)
	case PhaseFreeFormInterview:
		return m.freeAnswer(s, ev)
	default:
		return nil, fmt.Errorf("%w: answer outside a question phase (phase %s)", ErrValidation, s.Phase)
	}
}

func (m *Machine) fixedAnswer(s *Session, ev Event) ([]Effect, error) {
	q, err := questions.Get(s.CurrentQuestion)
	if err != nil {
		return nil, err
	}
	opt, ok := q.OptionByValue(ev.Answer)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an option for %s", ErrValidation, ev.Answer, q.ID)
	}

	s.hear(opt.Label.Pick(s.Lang))

	switch q.ID {
	case questions.Q1:
		s.Answers.ObtainMethod = opt.Value
	case questions.Q2:
		bucket := meal.TimeBucket(opt.Value)
		s.Answers.TimeBucket = bucket
		s.NeedsTimeFollowUp = !meal.UsualTime(s.MealType, bucket)
	case questions.Q3:
		s.Answers.DurationBucket = opt.Value
	}

	next := questions.Next(q.ID, s.NeedsTimeFollowUp)
	nextQ, err := questions.Get(next)
	if err != nil {
		return nil, err
	}
	if !nextQ.Fixed() {
		s.Phase = PhaseFreeFormInterview
	}
	s.CurrentQuestion = next
	return m.ask(s, next)
}

func (m *Machine) freeAnswer(s *Session, ev Event) ([]Effect, error) {
	text := strings.TrimSpace(ev.Answer)
	if text == "" {
		return nil, fmt.Errorf("%w: answer cannot be empty", ErrValidation)
	}

	s.hear(text)
	s.storeFreeText(text)
	return []Effect{
		{Type: EffectCallInterview, UserMessage: text, Seq: s.nextSeq()},
	}, nil
}

// storeFreeText files a free-form answer under the question it answers.
// Answers to the guidance prompt have no scripted slot and live only in
// the transcript.
func (s *Session) storeFreeText(text string) {
	switch s.CurrentQuestion {
	case questions.QTimeFollowUp:
		s.Answers.TimeJustification = text
	case questions.Q4:
		s.Answers.What = text
	case questions.Q5:
		s.Answers.Portion = text
	case questions.Q6:
		s.Answers.Why = text
	}
}

func (m *Machine) interviewReply(s *Session, ev Event) ([]Effect, error) {
	if s.Phase != PhaseFreeFormInterview || ev.Seq != s.Seq {
		return nil, nil // stale result, discard
	}

	s.say(ev.Reply)
	s.InterviewTurns++
	effects := []Effect{{Type: EffectSay, Line: ev.Reply}}

	// Backend down even after its retry budget: finish with what we
	// have rather than stall the player.
	if ev.ReplyFailed {
		return append(effects, m.beginSubmission(s)), nil
	}

	ending := ev.IsComplete ||
		(m.endings.Match(s.Lang, ev.Reply) && !npc.EndsWithQuestionMark(ev.Reply))
	next := questions.Next(s.CurrentQuestion, s.NeedsTimeFollowUp)

	switch {
	case ending || next == "":
		return append(effects, m.beginSubmission(s)), nil

	case s.InterviewTurns >= m.cfg.InterviewTurnCap:
		if m.hasMeaningfulContent(s) || s.GuidanceGiven {
			return append(effects, m.beginSubmission(s)), nil
		}
		// Cap reached with nothing substantial: one guiding prompt,
		// one more turn, then we finish regardless.
		s.GuidanceGiven = true
		s.CurrentQuestion = next
		line := lineGuidance.Pick(s.Lang)
		s.say(line)
		return append(effects, Effect{Type: EffectSay, Line: line}), nil

	default:
		s.CurrentQuestion = next
		askEffects, err := m.ask(s, next)
		if err != nil {
			return nil, err
		}
		return append(effects, askEffects...), nil
	}
}

func (m *Machine) submitResult(s *Session, ev Event) ([]Effect, error) {
	if !s.AwaitingSubmit || ev.Seq != s.Seq {
		return nil, nil // stale result, discard
	}
	s.AwaitingSubmit = false

	if ev.Success {
		s.Phase = PhaseCompleted
		line := lineInterviewDone.Pick(s.Lang)
		s.say(line)
		return []Effect{
			{Type: EffectSay, Line: line},
			{Type: EffectEndSession},
		}, nil
	}

	s.SubmitAttempts++
	if ev.Retriable && s.SubmitAttempts < m.cfg.SubmitRetryLimit {
		return []Effect{
			{Type: EffectSay, Line: lineSubmitRetry.Pick(s.Lang)},
			m.beginSubmission(s),
		}, nil
	}

	// Out of retries: tell the player and leave the session open so no
	// partial record exists and abandoning loses nothing.
	return []Effect{
		{Type: EffectSay, Line: lineSubmitFailed.Pick(s.Lang)},
	}, nil
}

func (m *Machine) beginSubmission(s *Session) Effect {
	s.AwaitingSubmit = true
	return Effect{Type: EffectSubmitMeal, Seq: s.nextSeq()}
}

// hasMeaningfulContent reports whether at least one free-text answer
// carries enough substance to be worth persisting.
func (m *Machine) hasMeaningfulContent(s *Session) bool {
	for _, text := range s.Answers.FreeTexts() {
		if utf8.RuneCountInString(strings.TrimSpace(text)) >= m.cfg.MinContentAnswerLen {
			return true
		}
	}
	return false
}

// ask renders a scripted question, records it in the transcript and
// returns the effect showing it to the player.
func (m *Machine) ask(s *Session, id questions.ID) ([]Effect, error) {
	q, err := questions.Get(id)
	if err != nil {
		return nil, err
	}
	prompt := q.PromptFor(s.Lang, s.MealType)
	s.say(prompt)
	return []Effect{{Type: EffectAskQuestion, Question: q, Prompt: prompt}}, nil
}
