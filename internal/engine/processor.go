// Package engine executes the dialogue machine's effects against the
// real world: AI backend calls, meal submission, clue grants, day
// progression and session persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/progress"
	"github.com/sunvale/sevendays/pkg/questions"
	"github.com/sunvale/sevendays/pkg/queue"
)

// ErrNPCLocked indicates the player tried to open dialogue with an NPC
// whose day has not arrived or whose predecessor has no recorded meal.
var ErrNPCLocked = errors.New("npc is locked")

// ErrNoSession indicates an event for a player with no open session.
var ErrNoSession = errors.New("no open session")

// SummaryEnqueuer hands completed games to the background worker.
type SummaryEnqueuer interface {
	Enqueue(ctx context.Context, job *queue.SummaryJob) error
}

// Reply is everything one player event produced: NPC lines, the next
// question or choice to show, and any clue or progression change.
type Reply struct {
	SessionID uuid.UUID      `json:"session_id"`
	Phase     dialogue.Phase `json:"phase"`

	Lines []string `json:"lines,omitempty"`

	Question *questions.Question `json:"question,omitempty"`
	Prompt   string              `json:"prompt,omitempty"`

	Choices []dialogue.Choice `json:"choices,omitempty"`
	Meals   []meal.Type       `json:"meals,omitempty"`

	Clue    *clue.Record      `json:"clue,omitempty"`
	Outcome *progress.Outcome `json:"outcome,omitempty"`

	// Done is set when the session ended and was discarded.
	Done bool `json:"done"`
}

// Engine applies player events to sessions and executes the resulting
// effects. Backend calls happen synchronously within the event, so the
// caller gets the complete exchange in one Reply.
type Engine struct {
	store     storage.Storage
	persona   services.PersonaBackend
	interview services.InterviewBackend
	summaries SummaryEnqueuer
	machine   *dialogue.Machine
	ctrl      *progress.Controller
	gate      *SubmissionGate
	logger    *slog.Logger
	timeout   time.Duration
}

// New wires an engine over its collaborators. A nil summaries enqueuer
// disables summary generation (the console validates this way).
func New(store storage.Storage, persona services.PersonaBackend, interview services.InterviewBackend, summaries SummaryEnqueuer, cfg dialogue.Config, timeout time.Duration, logger *slog.Logger) *Engine {
	cat := store.Catalog()
	return &Engine{
		store:     store,
		persona:   persona,
		interview: interview,
		summaries: summaries,
		machine:   dialogue.NewMachine(cat, npc.DefaultEndingRules(), cfg),
		ctrl:      progress.NewController(cat),
		gate:      NewSubmissionGate(store),
		logger:    logger,
		timeout:   timeout,
	}
}

// Open starts a conversation with an NPC. Any previous session the
// player abandoned mid-dialogue is discarded first.
func (e *Engine) Open(ctx context.Context, playerID, npcID string, l lang.Lang) (*Reply, error) {
	p, err := e.loadProgress(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ok, err := p.CanInteract(e.store.Catalog(), npcID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNPCLocked, npcID)
	}

	if old, err := e.store.LoadSession(ctx, playerID); err != nil {
		return nil, err
	} else if old != nil {
		e.logger.Info("Discarding abandoned session", "player_id", playerID, "npc_id", old.NPCID)
		if err := e.store.DeleteSession(ctx, playerID); err != nil {
			return nil, err
		}
	}

	s := dialogue.NewSession(playerID, npcID, p.CurrentDay, l)
	ev := dialogue.Event{
		Type:           dialogue.EventOpen,
		GreetedToday:   p.GreetedToday(npcID),
		AvailableMeals: p.AvailableMeals(npcID),
	}
	p.MarkGreeted(npcID)

	return e.apply(ctx, s, p, ev)
}

// Message sends a free-chat message to the session's NPC.
func (e *Engine) Message(ctx context.Context, playerID, text string) (*Reply, error) {
	return e.event(ctx, playerID, dialogue.Event{
		Type:    dialogue.EventPlayerMessage,
		Message: text,
	})
}

// Choose answers the keep-chatting / record-meal offer.
func (e *Engine) Choose(ctx context.Context, playerID string, c dialogue.Choice) (*Reply, error) {
	return e.event(ctx, playerID, dialogue.Event{
		Type:   dialogue.EventChoice,
		Choice: c,
	})
}

// SelectMeal picks the meal type to record.
func (e *Engine) SelectMeal(ctx context.Context, playerID string, t meal.Type) (*Reply, error) {
	return e.event(ctx, playerID, dialogue.Event{
		Type:     dialogue.EventSelectMeal,
		MealType: t,
	})
}

// Answer answers the current interview question, fixed or free-form.
func (e *Engine) Answer(ctx context.Context, playerID, text string) (*Reply, error) {
	return e.event(ctx, playerID, dialogue.Event{
		Type:   dialogue.EventAnswer,
		Answer: text,
	})
}

// Abandon discards the player's open session. Nothing recorded so far
// in the session is persisted.
func (e *Engine) Abandon(ctx context.Context, playerID string) (*Reply, error) {
	return e.event(ctx, playerID, dialogue.Event{Type: dialogue.EventAbandon})
}

// event loads session and progress, enriches the event with progress
// context and applies it.
func (e *Engine) event(ctx context.Context, playerID string, ev dialogue.Event) (*Reply, error) {
	s, err := e.store.LoadSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: player %s", ErrNoSession, playerID)
	}
	p, err := e.loadProgress(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ev.GreetedToday = p.GreetedToday(s.NPCID)
	ev.AvailableMeals = p.AvailableMeals(s.NPCID)

	return e.apply(ctx, s, p, ev)
}

func (e *Engine) loadProgress(ctx context.Context, playerID string) (*progress.Progress, error) {
	p, err := e.store.LoadProgress(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = progress.New(playerID)
	}
	return p, nil
}

// apply runs the machine and executes effects until the event stream
// drains, then persists session and progress.
func (e *Engine) apply(ctx context.Context, s *dialogue.Session, p *progress.Progress, ev dialogue.Event) (*Reply, error) {
	reply := &Reply{SessionID: s.ID}

	for {
		effects, err := e.machine.Transition(s, ev)
		if err != nil {
			return nil, err
		}

		next, err := e.execute(ctx, s, p, effects, reply)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		ev = *next
	}

	reply.Phase = s.Phase

	if !reply.Done {
		if err := e.store.SaveSession(ctx, s); err != nil {
			return nil, err
		}
	}
	if err := e.store.SaveProgress(ctx, p); err != nil {
		return nil, err
	}
	return reply, nil
}

// execute runs one batch of effects. Backend calls and submissions
// produce a follow-up event for the machine; at most one asynchronous
// effect appears per batch.
func (e *Engine) execute(ctx context.Context, s *dialogue.Session, p *progress.Progress, effects []dialogue.Effect, reply *Reply) (*dialogue.Event, error) {
	var next *dialogue.Event

	for _, eff := range effects {
		switch eff.Type {
		case dialogue.EffectSay:
			reply.Lines = append(reply.Lines, eff.Line)

		case dialogue.EffectAskQuestion:
			q := eff.Question
			reply.Question = &q
			reply.Prompt = eff.Prompt

		case dialogue.EffectOfferChoice:
			reply.Choices = []dialogue.Choice{dialogue.ChoiceKeepChatting, dialogue.ChoiceRecordMeal}

		case dialogue.EffectOfferMeals:
			reply.Meals = eff.Meals

		case dialogue.EffectCallPersona:
			ev := e.callPersona(ctx, s, eff)
			next = &ev

		case dialogue.EffectCallInterview:
			ev := e.callInterview(ctx, s, eff)
			next = &ev

		case dialogue.EffectSubmitMeal:
			ev, err := e.submitMeal(ctx, s, p, eff, reply)
			if err != nil {
				return nil, err
			}
			next = &ev

		case dialogue.EffectEndSession:
			if err := e.store.DeleteSession(ctx, s.PlayerID); err != nil {
				return nil, err
			}
			reply.Done = true

		default:
			return nil, fmt.Errorf("unknown effect type %q", eff.Type)
		}
	}
	return next, nil
}

// callPersona runs one persona backend turn. Failures degrade to a
// deterministic fallback line instead of surfacing to the player.
func (e *Engine) callPersona(ctx context.Context, s *dialogue.Session, eff dialogue.Effect) dialogue.Event {
	n, err := e.store.Catalog().Get(s.NPCID)
	if err != nil {
		// Validated at open; should not happen.
		return dialogue.Event{
			Type:        dialogue.EventPersonaReply,
			Seq:         eff.Seq,
			Greeting:    eff.Greeting,
			Reply:       services.PersonaFallback(s.Lang),
			ReplyFailed: true,
		}
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.persona.StartPersonaChat(cctx, services.PersonaRequest{
		NPC:          n,
		Lang:         s.Lang,
		Message:      eff.UserMessage,
		Greeting:     eff.Greeting,
		SessionToken: s.PersonaToken,
		Transcript:   s.Transcript,
	})
	if err != nil {
		e.logger.Warn("Persona backend failed, using fallback",
			"player_id", s.PlayerID, "npc_id", s.NPCID, "error", err)
		return dialogue.Event{
			Type:        dialogue.EventPersonaReply,
			Seq:         eff.Seq,
			Greeting:    eff.Greeting,
			Reply:       services.PersonaFallback(s.Lang),
			ReplyFailed: true,
		}
	}

	return dialogue.Event{
		Type:         dialogue.EventPersonaReply,
		Seq:          eff.Seq,
		Greeting:     eff.Greeting,
		Reply:        resp.Text,
		SessionToken: resp.SessionToken,
	}
}

// callInterview runs one interview backend turn with a single retry.
// After the retry budget is spent the machine is told to wrap up with
// what it has.
func (e *Engine) callInterview(ctx context.Context, s *dialogue.Session, eff dialogue.Effect) dialogue.Event {
	n, err := e.store.Catalog().Get(s.NPCID)
	if err != nil {
		return dialogue.Event{
			Type:        dialogue.EventInterviewReply,
			Seq:         eff.Seq,
			Reply:       services.InterviewFallback(s.Lang),
			ReplyFailed: true,
		}
	}

	req := services.InterviewRequest{
		NPC:          n,
		Lang:         s.Lang,
		MealType:     s.MealType,
		FixedAnswers: s.Answers,
		Transcript:   s.Transcript,
		UserMessage:  eff.UserMessage,
		TurnIndex:    s.InterviewTurns,
	}

	attempts := 1
	if !s.InterviewRetried {
		attempts = 2
	}
	var resp *services.InterviewResponse
	for i := 0; i < attempts; i++ {
		cctx, cancel := context.WithTimeout(ctx, e.timeout)
		resp, err = e.interview.StartInterview(cctx, req)
		cancel()
		if err == nil {
			break
		}
		e.logger.Warn("Interview backend failed",
			"player_id", s.PlayerID, "attempt", i+1, "error", err)
		s.InterviewRetried = true
	}
	if err != nil {
		return dialogue.Event{
			Type:        dialogue.EventInterviewReply,
			Seq:         eff.Seq,
			Reply:       services.InterviewFallback(s.Lang),
			ReplyFailed: true,
		}
	}

	return dialogue.Event{
		Type:       dialogue.EventInterviewReply,
		Seq:        eff.Seq,
		Reply:      resp.Text,
		IsComplete: resp.IsComplete,
	}
}

// submitMeal drives the idempotent submission and, on success, grants
// the clue and applies day progression. A duplicate submission reports
// success without granting anything twice.
func (e *Engine) submitMeal(ctx context.Context, s *dialogue.Session, p *progress.Progress, eff dialogue.Effect, reply *Reply) (dialogue.Event, error) {
	rec := &meal.Record{
		PlayerID:   s.PlayerID,
		Day:        s.Day,
		NPCID:      s.NPCID,
		MealType:   s.MealType,
		Answers:    s.Answers,
		Transcript: s.Transcript,
		RecordedAt: time.Now(),
	}

	accepted, err := e.gate.Submit(ctx, rec)
	if err != nil {
		e.logger.Error("Meal submission failed",
			"player_id", s.PlayerID, "day", s.Day, "meal_type", s.MealType, "error", err)
		return dialogue.Event{
			Type:      dialogue.EventSubmitResult,
			Seq:       eff.Seq,
			Retriable: errors.Is(err, storage.ErrPersistence),
		}, nil
	}

	p.ConsumeMeal(s.NPCID, s.MealType)
	if accepted {
		p.RecordMeal(s.NPCID, s.Day)
		if err := e.grantClue(ctx, s, p, reply); err != nil {
			return dialogue.Event{}, err
		}
	}

	return dialogue.Event{
		Type:    dialogue.EventSubmitResult,
		Seq:     eff.Seq,
		Success: true,
	}, nil
}

// grantClue resolves the clue tier for the just-recorded meal, persists
// it and applies any resulting progression.
func (e *Engine) grantClue(ctx context.Context, s *dialogue.Session, p *progress.Progress, reply *Reply) error {
	tier, text, ok := clue.Resolve(s.MealType, nil)
	if !ok {
		return nil
	}
	if !p.GrantClue(s.NPCID, tier) {
		return nil // tier already granted
	}

	if text == "" {
		n, err := e.store.Catalog().Get(s.NPCID)
		if err != nil {
			return err
		}
		text = n.Clue(tier, s.Lang)
	}

	rec := &clue.Record{
		PlayerID:  s.PlayerID,
		NPCID:     s.NPCID,
		Day:       s.Day,
		Tier:      tier,
		Text:      text,
		GrantedAt: time.Now(),
	}
	if err := e.store.SaveClue(ctx, rec); err != nil {
		return err
	}
	reply.Clue = rec
	reply.Lines = append(reply.Lines, text)

	out, err := e.ctrl.OnClueGranted(p, s.NPCID, tier)
	if err != nil {
		return err
	}
	if out.NPCCompleted {
		reply.Outcome = &out
		e.logger.Info("NPC interaction complete",
			"player_id", s.PlayerID, "npc_id", s.NPCID,
			"day_advanced", out.DayAdvanced, "game_completed", out.GameCompleted)
	}
	if out.GameCompleted {
		if err := e.enqueueSummary(ctx, s); err != nil {
			// The worker can be re-triggered; the playthrough itself is
			// already complete and persisted.
			e.logger.Error("Failed to enqueue summary job",
				"player_id", s.PlayerID, "error", err)
		}
	}
	return nil
}

func (e *Engine) enqueueSummary(ctx context.Context, s *dialogue.Session) error {
	if e.summaries == nil {
		return nil
	}
	return e.summaries.Enqueue(ctx, &queue.SummaryJob{
		JobID:      uuid.New().String(),
		PlayerID:   s.PlayerID,
		Lang:       s.Lang,
		EnqueuedAt: time.Now(),
	})
}
