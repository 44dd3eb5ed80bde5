package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
	"github.com/sunvale/sevendays/pkg/queue"
)

type mockEnqueuer struct {
	jobs []*queue.SummaryJob
	err  error
}

func (m *mockEnqueuer) Enqueue(_ context.Context, job *queue.SummaryJob) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

type testEnv struct {
	engine    *Engine
	store     *storage.MockStorage
	persona   *services.MockPersonaBackend
	interview *services.MockInterviewBackend
	summaries *mockEnqueuer
}

func newTestEngine(t *testing.T) *testEnv {
	t.Helper()

	store := storage.NewMockStorage()
	persona := services.NewMockPersonaBackend()
	interview := services.NewMockInterviewBackend()
	summaries := &mockEnqueuer{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	return &testEnv{
		engine:    New(store, persona, interview, summaries, dialogue.DefaultConfig(), time.Second, logger),
		store:     store,
		persona:   persona,
		interview: interview,
		summaries: summaries,
	}
}

// openAndReachMealSelection chats past the turn threshold and chooses
// to record a meal.
func openAndReachMealSelection(t *testing.T, env *testEnv, npcID string) {
	t.Helper()
	ctx := context.Background()

	reply, err := env.engine.Open(ctx, "p1", npcID, lang.English)
	require.NoError(t, err)
	require.Equal(t, dialogue.PhaseFreeChat, reply.Phase)

	for i := 0; reply.Choices == nil; i++ {
		require.Less(t, i, 10, "offer never appeared")
		reply, err = env.engine.Message(ctx, "p1", "tell me about the village")
		require.NoError(t, err)
	}

	reply, err = env.engine.Choose(ctx, "p1", dialogue.ChoiceRecordMeal)
	require.NoError(t, err)
	require.Equal(t, dialogue.PhaseMealSelection, reply.Phase)
	require.NotEmpty(t, reply.Meals)
}

// answerFixed walks the fixed questionnaire. timeBucket controls
// whether the time follow-up fires.
func answerFixed(t *testing.T, env *testEnv, mealType meal.Type, timeBucket string) *Reply {
	t.Helper()
	ctx := context.Background()

	reply, err := env.engine.SelectMeal(ctx, "p1", mealType)
	require.NoError(t, err)
	require.Equal(t, dialogue.PhaseFixedQuestions, reply.Phase)

	reply, err = env.engine.Answer(ctx, "p1", "home_cooked")
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", timeBucket)
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", "under_10")
	require.NoError(t, err)
	require.Equal(t, dialogue.PhaseFreeFormInterview, reply.Phase)
	return reply
}

func TestEngine_BreakfastHappyPath(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")
	answerFixed(t, env, meal.Breakfast, "morning")

	// Three free-form answers walk Q4 through Q6, then submission.
	env.interview.SetInterviewReply("Mm. And?", false)
	reply, err := env.engine.Answer(ctx, "p1", "rice porridge with pickles")
	require.NoError(t, err)
	assert.False(t, reply.Done)
	reply, err = env.engine.Answer(ctx, "p1", "one full bowl")
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", "it was cold and I wanted something warm")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	assert.Equal(t, dialogue.PhaseCompleted, reply.Phase)
	require.NotNil(t, reply.Clue)
	assert.Equal(t, clue.TierVague1, reply.Clue.Tier, "breakfast yields the first vague tier")
	assert.Nil(t, reply.Outcome, "a vague clue never advances the day")

	rec, err := env.store.GetMealRecord(ctx, "p1", 1, meal.Breakfast)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "home_cooked", rec.Answers.ObtainMethod)
	assert.Equal(t, "rice porridge with pickles", rec.Answers.What)
	assert.Empty(t, rec.Answers.TimeJustification, "usual time asks no follow-up")

	// Session discarded, progress persisted.
	s, err := env.store.LoadSession(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, s)
	p, err := env.store.LoadProgress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentDay)
	assert.True(t, p.NPCState("village_head").HasRecordedAnyMeal)
}

func TestEngine_DinnerUnusualTimeAdvancesDay(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")
	reply := answerFixed(t, env, meal.Dinner, "noon")

	// Eating dinner at noon inserts the time follow-up before Q4.
	env.interview.SetInterviewReply("I see. Go on.", false)
	reply, err := env.engine.Answer(ctx, "p1", "night shift, I eat before work")
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", "leftover noodles")
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", "a small plate")
	require.NoError(t, err)
	reply, err = env.engine.Answer(ctx, "p1", "it was what was in the fridge")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	require.NotNil(t, reply.Clue)
	assert.Equal(t, clue.TierTrue, reply.Clue.Tier, "dinner yields the true clue")
	require.NotNil(t, reply.Outcome)
	assert.True(t, reply.Outcome.DayAdvanced)
	assert.Equal(t, 2, reply.Outcome.NewDay)
	assert.Equal(t, "baker", reply.Outcome.UnlockedNPCID)

	rec, err := env.store.GetMealRecord(ctx, "p1", 1, meal.Dinner)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "night shift, I eat before work", rec.Answers.TimeJustification)

	// The next day's NPC is now reachable.
	_, err = env.engine.Open(ctx, "p1", "baker", lang.English)
	require.NoError(t, err)
}

func TestEngine_LockedNPC(t *testing.T) {
	env := newTestEngine(t)

	_, err := env.engine.Open(context.Background(), "p1", "baker", lang.English)
	assert.ErrorIs(t, err, ErrNPCLocked)
}

func TestEngine_RepeatVisitSkipsGreeting(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")
	_, err := env.engine.Abandon(ctx, "p1")
	require.NoError(t, err)

	reply, err := env.engine.Open(ctx, "p1", "village_head", lang.English)
	require.NoError(t, err)
	assert.Equal(t, dialogue.PhaseMealSelection, reply.Phase)
	assert.Len(t, reply.Meals, len(meal.All), "abandoning persists nothing")
}

func TestEngine_ExhaustedMealsTerminalGreeting(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	p, err := env.engine.loadProgress(ctx, "p1")
	require.NoError(t, err)
	for _, m := range meal.All {
		require.True(t, p.ConsumeMeal("village_head", m))
	}
	require.NoError(t, env.store.SaveProgress(ctx, p))

	reply, err := env.engine.Open(ctx, "p1", "village_head", lang.English)
	require.NoError(t, err)
	assert.True(t, reply.Done)
	assert.Equal(t, dialogue.PhaseCompleted, reply.Phase)
	assert.NotEmpty(t, reply.Lines)
	assert.Equal(t, 0, env.persona.CallCount())
}

func TestEngine_AllBackendsDownStillRecords(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	env.persona.SetError(services.ErrBackendUnavailable)
	env.interview.SetInterviewError(services.ErrBackendUnavailable)

	// Fallback lines keep the chat moving until the turn threshold.
	openAndReachMealSelection(t, env, "village_head")
	answerFixed(t, env, meal.Breakfast, "morning")

	// The first free answer hits the dead backend; after the retry the
	// interview wraps up and the meal still gets submitted.
	reply, err := env.engine.Answer(ctx, "p1", "plain congee")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	assert.Equal(t, dialogue.PhaseCompleted, reply.Phase)
	require.NotNil(t, reply.Clue)

	rec, err := env.store.GetMealRecord(ctx, "p1", 1, meal.Breakfast)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "plain congee", rec.Answers.What)
}

func TestEngine_InterviewCompleteFlagEndsEarly(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")
	answerFixed(t, env, meal.Lunch, "noon")

	env.interview.SetInterviewReply("Thank you, that tells me everything.", true)
	reply, err := env.engine.Answer(ctx, "p1", "fried rice from the corner shop")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	require.NotNil(t, reply.Clue)
	assert.Equal(t, clue.TierVague2, reply.Clue.Tier)
}

func TestEngine_SubmitRetryExhaustionLeavesSessionOpen(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")
	answerFixed(t, env, meal.Breakfast, "morning")

	env.store.SetSaveMealError(fmt.Errorf("%w: redis down", storage.ErrPersistence))
	env.interview.SetInterviewReply("Noted.", true)
	reply, err := env.engine.Answer(ctx, "p1", "toast")
	require.NoError(t, err)

	assert.False(t, reply.Done, "failed submission keeps the session open")
	assert.Equal(t, dialogue.PhaseFreeFormInterview, reply.Phase)
	assert.Nil(t, reply.Clue)
	cfg := dialogue.DefaultConfig()
	assert.Equal(t, cfg.SubmitRetryLimit, env.store.SaveMealCalls)

	// Storage recovers; answering again submits cleanly.
	env.store.SetSaveMealError(nil)
	reply, err = env.engine.Answer(ctx, "p1", "just toast with jam")
	require.NoError(t, err)
	assert.True(t, reply.Done)
	require.NotNil(t, reply.Clue)
}

func TestEngine_FinalDayEnqueuesSummary(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	// Jump the player to the final day with the path unlocked.
	p, err := env.engine.loadProgress(ctx, "p1")
	require.NoError(t, err)
	p.CurrentDay = npc.FinalDay
	for _, n := range env.store.Catalog().All() {
		if n.Day < npc.FinalDay {
			p.RecordMeal(n.ID, n.Day)
		}
	}
	require.NoError(t, env.store.SaveProgress(ctx, p))

	openAndReachMealSelection(t, env, "lighthouse_keeper")
	answerFixed(t, env, meal.Dinner, "evening")

	env.interview.SetInterviewReply("Thank you. That is the whole story.", true)
	reply, err := env.engine.Answer(ctx, "p1", "fish stew by the lighthouse")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	require.NotNil(t, reply.Outcome)
	assert.True(t, reply.Outcome.GameCompleted)

	require.Len(t, env.summaries.jobs, 1)
	assert.Equal(t, "p1", env.summaries.jobs[0].PlayerID)
	assert.Equal(t, lang.English, env.summaries.jobs[0].Lang)

	loaded, err := env.store.LoadProgress(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, loaded.Completed)
}

func TestEngine_EnqueueFailureDoesNotFailCompletion(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	env.summaries.err = errors.New("queue down")

	p, err := env.engine.loadProgress(ctx, "p1")
	require.NoError(t, err)
	p.CurrentDay = npc.FinalDay
	for _, n := range env.store.Catalog().All() {
		if n.Day < npc.FinalDay {
			p.RecordMeal(n.ID, n.Day)
		}
	}
	require.NoError(t, env.store.SaveProgress(ctx, p))

	openAndReachMealSelection(t, env, "lighthouse_keeper")
	answerFixed(t, env, meal.Dinner, "evening")
	env.interview.SetInterviewReply("Done.", true)
	reply, err := env.engine.Answer(ctx, "p1", "fish stew")
	require.NoError(t, err)

	assert.True(t, reply.Done)
	require.NotNil(t, reply.Outcome)
	assert.True(t, reply.Outcome.GameCompleted)
}

func TestEngine_EventWithoutSession(t *testing.T) {
	env := newTestEngine(t)

	_, err := env.engine.Message(context.Background(), "p1", "hello?")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEngine_ValidationErrorDoesNotPersist(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()

	openAndReachMealSelection(t, env, "village_head")

	_, err := env.engine.SelectMeal(ctx, "p1", meal.Type("brunch"))
	assert.ErrorIs(t, err, dialogue.ErrValidation)

	// The session is still in meal selection; a valid pick works.
	reply, err := env.engine.SelectMeal(ctx, "p1", meal.Breakfast)
	require.NoError(t, err)
	assert.Equal(t, dialogue.PhaseFixedQuestions, reply.Phase)
}
