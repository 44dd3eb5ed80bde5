package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
)

func testNPC(t *testing.T) *npc.NPC {
	t.Helper()
	cat, err := npc.NewCatalog(npc.DefaultCast())
	require.NoError(t, err)
	n, err := cat.Get("baker")
	require.NoError(t, err)
	return n
}

func TestPersonaSystem(t *testing.T) {
	n := testNPC(t)

	en := PersonaSystem(n, lang.English)
	assert.Contains(t, en, n.Name.Pick(lang.English))
	assert.Contains(t, en, n.Persona.Pick(lang.English))
	assert.Contains(t, en, "reply in English")

	zh := PersonaSystem(n, lang.Chinese)
	assert.Contains(t, zh, n.Name.Pick(lang.Chinese))
	assert.Contains(t, zh, n.Persona.Pick(lang.Chinese))
	assert.NotEqual(t, en, zh)
}

func TestGreetingCue(t *testing.T) {
	assert.NotEmpty(t, GreetingCue(lang.English))
	assert.NotEmpty(t, GreetingCue(lang.Chinese))
	assert.NotEqual(t, GreetingCue(lang.English), GreetingCue(lang.Chinese))
}

func TestInterviewSystem(t *testing.T) {
	n := testNPC(t)
	fixed := meal.Answers{
		ObtainMethod: "home_cooked",
		TimeBucket:   meal.TimeNoon,
	}

	p := InterviewSystem(n, meal.Lunch, fixed, lang.English)
	assert.Contains(t, p, n.Name.Pick(lang.English))
	assert.Contains(t, p, meal.Lunch.Name(lang.English))
	assert.Contains(t, p, "home_cooked", "fixed answers should be embedded")
	assert.Contains(t, p, InterviewDoneMarker)

	zh := InterviewSystem(n, meal.Lunch, fixed, lang.Chinese)
	assert.Contains(t, zh, meal.Lunch.Name(lang.Chinese))
	assert.Contains(t, zh, InterviewDoneMarker)
}

func TestSummarySystem(t *testing.T) {
	en := SummarySystem(lang.English)
	for _, field := range []string{"letter", "seven_day_summary", "health_notes", "recipe"} {
		assert.True(t, strings.Contains(en, field), "missing field %s", field)
	}

	zh := SummarySystem(lang.Chinese)
	for _, field := range []string{"letter", "seven_day_summary", "health_notes", "recipe"} {
		assert.True(t, strings.Contains(zh, field), "missing field %s", field)
	}
}
