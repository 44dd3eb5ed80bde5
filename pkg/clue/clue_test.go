package clue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunvale/sevendays/pkg/meal"
)

func TestTierFor(t *testing.T) {
	tier, ok := TierFor(meal.Breakfast)
	assert.True(t, ok)
	assert.Equal(t, TierVague1, tier)

	tier, ok = TierFor(meal.Lunch)
	assert.True(t, ok)
	assert.Equal(t, TierVague2, tier)

	tier, ok = TierFor(meal.Dinner)
	assert.True(t, ok)
	assert.Equal(t, TierTrue, tier)

	_, ok = TierFor(meal.Type("brunch"))
	assert.False(t, ok)
}

// Tier is a function of meal type alone: recording the meals in any
// order yields the same tier per meal.
func TestTierIndependentOfOrder(t *testing.T) {
	orders := [][]meal.Type{
		{meal.Breakfast, meal.Lunch, meal.Dinner},
		{meal.Dinner, meal.Breakfast, meal.Lunch},
		{meal.Lunch, meal.Dinner, meal.Breakfast},
	}
	want := map[meal.Type]Tier{
		meal.Breakfast: TierVague1,
		meal.Lunch:     TierVague2,
		meal.Dinner:    TierTrue,
	}

	for _, order := range orders {
		for _, m := range order {
			tier, ok := TierFor(m)
			assert.True(t, ok)
			assert.Equal(t, want[m], tier, "meal %s in order %v", m, order)
		}
	}
}

func TestResolvePrecomputedWins(t *testing.T) {
	pre := &Precomputed{ShouldGiveClue: true, Tier: TierVague2, Text: "backend text"}
	tier, text, ok := Resolve(meal.Breakfast, pre)
	assert.True(t, ok)
	assert.Equal(t, TierVague2, tier)
	assert.Equal(t, "backend text", text)
}

func TestResolveFallsBackToLocalDerivation(t *testing.T) {
	// No precomputed result at all.
	tier, text, ok := Resolve(meal.Dinner, nil)
	assert.True(t, ok)
	assert.Equal(t, TierTrue, tier)
	assert.Empty(t, text)

	// Precomputed present but invalid tier: local derivation wins.
	tier, _, ok = Resolve(meal.Lunch, &Precomputed{ShouldGiveClue: true, Tier: Tier("stage-9")})
	assert.True(t, ok)
	assert.Equal(t, TierVague2, tier)

	// Precomputed says no clue: still derive locally so the player is
	// never blocked by a backend omission.
	tier, _, ok = Resolve(meal.Breakfast, &Precomputed{ShouldGiveClue: false})
	assert.True(t, ok)
	assert.Equal(t, TierVague1, tier)

	_, _, ok = Resolve(meal.Type("brunch"), nil)
	assert.False(t, ok)
}
