package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, FinalDay, c.Len())

	for day := 1; day <= FinalDay; day++ {
		n, ok := c.ByDay(day)
		require.True(t, ok, "no npc for day %d", day)
		assert.Equal(t, day, n.Day)
		assert.NotEmpty(t, n.Name.EN)
		assert.NotEmpty(t, n.Name.ZH)
		assert.NotEmpty(t, n.Persona.EN)
		assert.NotEmpty(t, n.TriggerPhrases[lang.English])
		assert.NotEmpty(t, n.TriggerPhrases[lang.Chinese])
		for _, tier := range clue.Tiers {
			assert.False(t, n.Clues[tier].Empty(), "npc %s missing %s clue", n.ID, tier)
		}
	}

	all := c.All()
	require.Len(t, all, FinalDay)
	for i, n := range all {
		assert.Equal(t, i+1, n.Day)
	}
}

func TestCatalogGet(t *testing.T) {
	c := DefaultCatalog()

	n, err := c.Get("village_head")
	require.NoError(t, err)
	assert.Equal(t, 1, n.Day)

	_, err = c.Get("mayor")
	assert.ErrorIs(t, err, ErrUnknownNPC)
}

func TestNextAfter(t *testing.T) {
	c := DefaultCatalog()

	first, _ := c.ByDay(1)
	second := c.NextAfter(first)
	require.NotNil(t, second)
	assert.Equal(t, 2, second.Day)

	last, _ := c.ByDay(FinalDay)
	assert.Nil(t, c.NextAfter(last))
}

func TestNewCatalogValidation(t *testing.T) {
	_, err := NewCatalog([]NPC{{ID: "a", Day: 1}, {ID: "a", Day: 2}})
	assert.ErrorContains(t, err, "duplicate npc id")

	_, err = NewCatalog([]NPC{{ID: "a", Day: 1}, {ID: "b", Day: 1}})
	assert.ErrorContains(t, err, "share day")

	_, err = NewCatalog([]NPC{{ID: "a", Day: 0}})
	assert.ErrorContains(t, err, "outside")

	_, err = NewCatalog([]NPC{{ID: "", Day: 1}})
	assert.ErrorContains(t, err, "no id")
}

func TestPhraseRulesMatch(t *testing.T) {
	rules := PhraseRules{
		lang.English: {"thank you for sharing", "that's all"},
		lang.Chinese: {"谢谢你的分享"},
	}

	assert.True(t, rules.Match(lang.English, "Well, THANK YOU for sharing all that."))
	assert.False(t, rules.Match(lang.English, "tell me more"))
	assert.True(t, rules.Match(lang.Chinese, "好的，谢谢你的分享。"))
	assert.False(t, rules.Match(lang.Chinese, "再多说一点"))
}

func TestTriggeredBy(t *testing.T) {
	c := DefaultCatalog()
	head, err := c.Get("village_head")
	require.NoError(t, err)

	assert.True(t, head.TriggeredBy(lang.English, "Ah, speaking of food, the harvest was good this year."))
	assert.False(t, head.TriggeredBy(lang.English, "The weather has turned."))
	assert.True(t, head.TriggeredBy(lang.Chinese, "对了，你吃饭了吗？"))
}

func TestEndsWithQuestionMark(t *testing.T) {
	assert.True(t, EndsWithQuestionMark("How much did you eat?"))
	assert.True(t, EndsWithQuestionMark("你吃了多少？"))
	assert.True(t, EndsWithQuestionMark("Really?  "))
	assert.False(t, EndsWithQuestionMark("Thank you for sharing."))
}
