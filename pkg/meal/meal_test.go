package meal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sunvale/sevendays/pkg/lang"
)

func TestTypeValidAndOrdinal(t *testing.T) {
	assert.True(t, Breakfast.Valid())
	assert.True(t, Dinner.Valid())
	assert.False(t, Type("brunch").Valid())

	assert.Equal(t, 0, Breakfast.Ordinal())
	assert.Equal(t, 1, Lunch.Ordinal())
	assert.Equal(t, 2, Dinner.Ordinal())
	assert.Equal(t, -1, Type("brunch").Ordinal())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "breakfast", Breakfast.Name(lang.English))
	assert.Equal(t, "晚餐", Dinner.Name(lang.Chinese))
}

func TestUsualTime(t *testing.T) {
	assert.True(t, UsualTime(Breakfast, TimeMorning))
	assert.False(t, UsualTime(Breakfast, TimeNight))

	assert.True(t, UsualTime(Lunch, TimeNoon))
	assert.False(t, UsualTime(Lunch, TimeEvening))

	assert.True(t, UsualTime(Dinner, TimeEvening))
	// Eating dinner after 9PM is the canonical follow-up trigger.
	assert.False(t, UsualTime(Dinner, TimeNight))
}

func TestAnswersFreeTexts(t *testing.T) {
	a := Answers{What: "rice and eggs", Portion: "one bowl", Why: "convenient"}
	assert.Equal(t, []string{"rice and eggs", "one bowl", "convenient"}, a.FreeTexts())

	a.TimeJustification = "worked late"
	assert.Equal(t, []string{"worked late", "rice and eggs", "one bowl", "convenient"}, a.FreeTexts())
}

func TestRecordKey(t *testing.T) {
	r := Record{PlayerID: "p1", Day: 3, MealType: Lunch}
	assert.Equal(t, "p1:3:lunch", r.Key())
	assert.Equal(t, r.Key(), RecordKey("p1", 3, Lunch))
}
