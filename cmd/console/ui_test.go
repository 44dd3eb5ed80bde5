package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/progress"
)

func TestMealTypeFromInput(t *testing.T) {
	assert.Equal(t, meal.Breakfast, mealTypeFromInput("breakfast"))
	assert.Equal(t, meal.Lunch, mealTypeFromInput("Lunch"))
	assert.Equal(t, meal.Dinner, mealTypeFromInput("DINNER"))

	// Unrecognized input passes through lowered so the API rejects it.
	assert.Equal(t, meal.Type("brunch"), mealTypeFromInput("Brunch"))
}

func TestIngestReply(t *testing.T) {
	m := ConsoleUI{lang: lang.English, npc: npcEntry{ID: "village_head", Name: "Elder Rowan"}}

	reply := &engine.Reply{
		Phase: dialogue.PhaseMealSelection,
		Lines: []string{"Good to see you again.", "What shall we talk about?"},
		Meals: []meal.Type{meal.Lunch, meal.Dinner},
	}
	m.ingestReply(reply)

	require.Len(t, m.entries, 4)
	assert.Equal(t, entryNPC, m.entries[0].kind)
	assert.Equal(t, "Good to see you again.", m.entries[0].text)
	assert.Equal(t, entrySystem, m.entries[2].kind)
	assert.Contains(t, m.entries[2].text, "1)")
	assert.Contains(t, m.entries[3].text, "2)")
	assert.Same(t, reply, m.reply)
}

func TestIngestReply_ClueAndOutcome(t *testing.T) {
	m := ConsoleUI{lang: lang.English, npc: npcEntry{ID: "village_head", Name: "Elder Rowan"}}

	m.ingestReply(&engine.Reply{
		Phase:   dialogue.PhaseCompleted,
		Clue:    &clue.Record{Tier: clue.TierVague1, Text: "He left a sealed tin."},
		Outcome: &progress.Outcome{DayAdvanced: true, NewDay: 2},
		Done:    true,
	})

	assert.Equal(t, "He left a sealed tin.", m.lastClue)
	require.Len(t, m.entries, 3)
	assert.Equal(t, entryClue, m.entries[0].kind)
	assert.Contains(t, m.entries[0].text, "He left a sealed tin.")
	assert.Equal(t, entrySystem, m.entries[1].kind)
	assert.Contains(t, m.entries[1].text, "Day 2")
	assert.Contains(t, m.entries[2].text, "/npcs")
}

func TestIngestReply_Choices(t *testing.T) {
	m := ConsoleUI{lang: lang.Chinese, npc: npcEntry{ID: "village_head", Name: "罗文长老"}}

	m.ingestReply(&engine.Reply{
		Phase:   dialogue.PhaseFreeChat,
		Choices: []dialogue.Choice{dialogue.ChoiceKeepChatting, dialogue.ChoiceRecordMeal},
	})

	require.Len(t, m.entries, 2)
	assert.Contains(t, m.entries[0].text, "继续聊天")
	assert.Contains(t, m.entries[1].text, "记录一餐")
}
