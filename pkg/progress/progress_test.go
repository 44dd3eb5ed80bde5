package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
)

func TestAvailableMealsResetPerDay(t *testing.T) {
	p := New("p1")

	avail := p.AvailableMeals("village_head")
	assert.Equal(t, []meal.Type{meal.Breakfast, meal.Lunch, meal.Dinner}, avail)

	require.True(t, p.ConsumeMeal("village_head", meal.Lunch))
	assert.Equal(t, []meal.Type{meal.Breakfast, meal.Dinner}, p.AvailableMeals("village_head"))

	// Consuming an already-consumed meal fails.
	assert.False(t, p.ConsumeMeal("village_head", meal.Lunch))

	// A new day restores full availability.
	p.CurrentDay = 2
	assert.Equal(t, []meal.Type{meal.Breakfast, meal.Lunch, meal.Dinner}, p.AvailableMeals("village_head"))
}

func TestGreetedToday(t *testing.T) {
	p := New("p1")
	assert.False(t, p.GreetedToday("baker"))

	p.MarkGreeted("baker")
	assert.True(t, p.GreetedToday("baker"))

	p.CurrentDay = 2
	assert.False(t, p.GreetedToday("baker"))
}

func TestGrantClueAtMostOnce(t *testing.T) {
	p := New("p1")
	assert.True(t, p.GrantClue("village_head", clue.TierTrue))
	assert.False(t, p.GrantClue("village_head", clue.TierTrue))
	assert.True(t, p.GrantClue("village_head", clue.TierVague1))
}

func TestCanInteractGating(t *testing.T) {
	cat := npc.DefaultCatalog()
	p := New("p1")

	ok, err := p.CanInteract(cat, "village_head")
	require.NoError(t, err)
	assert.True(t, ok)

	// Day 2 NPC is locked while it's still day 1.
	ok, err = p.CanInteract(cat, "baker")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.CanInteract(cat, "stranger")
	assert.ErrorIs(t, err, npc.ErrUnknownNPC)

	// Advancing the day alone is not enough: the previous NPC must have
	// recorded at least one meal.
	p.CurrentDay = 2
	ok, err = p.CanInteract(cat, "baker")
	require.NoError(t, err)
	assert.False(t, ok)

	p.RecordMeal("village_head", 1)
	ok, err = p.CanInteract(cat, "baker")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestControllerAdvancesDayOnce(t *testing.T) {
	cat := npc.DefaultCatalog()
	ctrl := NewController(cat)
	p := New("p1")

	// Vague tiers never complete an NPC.
	out, err := ctrl.OnClueGranted(p, "village_head", clue.TierVague1)
	require.NoError(t, err)
	assert.False(t, out.NPCCompleted)
	assert.Equal(t, 1, p.CurrentDay)

	out, err = ctrl.OnClueGranted(p, "village_head", clue.TierTrue)
	require.NoError(t, err)
	assert.True(t, out.NPCCompleted)
	assert.True(t, out.DayAdvanced)
	assert.Equal(t, 2, out.NewDay)
	assert.Equal(t, "baker", out.UnlockedNPCID)
	assert.Equal(t, 2, p.CurrentDay)

	// A duplicate completion event changes nothing.
	out, err = ctrl.OnClueGranted(p, "village_head", clue.TierTrue)
	require.NoError(t, err)
	assert.False(t, out.NPCCompleted)
	assert.False(t, out.DayAdvanced)
	assert.Equal(t, 2, p.CurrentDay)
}

func TestControllerCompletesPastDayNPCWithoutAdvancing(t *testing.T) {
	cat := npc.DefaultCatalog()
	ctrl := NewController(cat)
	p := New("p1")
	p.CurrentDay = 3

	out, err := ctrl.OnClueGranted(p, "village_head", clue.TierTrue)
	require.NoError(t, err)
	assert.True(t, out.NPCCompleted)
	assert.False(t, out.DayAdvanced)
	assert.Equal(t, 3, p.CurrentDay)
}

func TestControllerFinalDayCompletesGame(t *testing.T) {
	cat := npc.DefaultCatalog()
	ctrl := NewController(cat)
	p := New("p1")
	p.CurrentDay = npc.FinalDay

	out, err := ctrl.OnClueGranted(p, "lighthouse_keeper", clue.TierTrue)
	require.NoError(t, err)
	assert.True(t, out.NPCCompleted)
	assert.True(t, out.GameCompleted)
	assert.False(t, out.DayAdvanced)
	assert.True(t, p.Completed)
	assert.Equal(t, npc.FinalDay, p.CurrentDay)

	_, err = ctrl.OnClueGranted(p, "nobody", clue.TierTrue)
	assert.ErrorIs(t, err, npc.ErrUnknownNPC)
}
