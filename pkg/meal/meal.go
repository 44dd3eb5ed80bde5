// Package meal defines meal types, the structured answers collected by
// the meal interview, and the persisted meal record.
package meal

import (
	"fmt"
	"time"

	"github.com/sunvale/sevendays/pkg/chat"
	"github.com/sunvale/sevendays/pkg/lang"
)

// Type is one of the three daily meals.
type Type string

const (
	Breakfast Type = "breakfast"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
)

// All lists the meal types in their canonical daily order.
var All = []Type{Breakfast, Lunch, Dinner}

// Valid reports whether t is a known meal type.
func (t Type) Valid() bool {
	return t == Breakfast || t == Lunch || t == Dinner
}

// Ordinal returns the position of the meal within a day (0..2), or -1
// for an unknown type.
func (t Type) Ordinal() int {
	for i, m := range All {
		if m == t {
			return i
		}
	}
	return -1
}

var typeNames = map[Type]lang.Text{
	Breakfast: {EN: "breakfast", ZH: "早餐"},
	Lunch:     {EN: "lunch", ZH: "午餐"},
	Dinner:    {EN: "dinner", ZH: "晚餐"},
}

// Name returns the localized display name of the meal type.
func (t Type) Name(l lang.Lang) string {
	return typeNames[t].Pick(l)
}

// TimeBucket is a coarse answer bucket for "when did you eat".
type TimeBucket string

const (
	TimeMorning   TimeBucket = "morning"    // before 10AM
	TimeNoon      TimeBucket = "noon"       // 10AM-2PM
	TimeAfternoon TimeBucket = "afternoon"  // 2PM-5PM
	TimeEvening   TimeBucket = "evening"    // 5PM-9PM
	TimeNight     TimeBucket = "late_night" // after 9PM
)

// usualTimes holds the time buckets considered ordinary for each meal.
// An answer outside this set triggers the time follow-up question.
var usualTimes = map[Type][]TimeBucket{
	Breakfast: {TimeMorning},
	Lunch:     {TimeNoon},
	Dinner:    {TimeEvening},
}

// UsualTime reports whether b is a usual eating time for meal type t.
func UsualTime(t Type, b TimeBucket) bool {
	for _, u := range usualTimes[t] {
		if u == b {
			return true
		}
	}
	return false
}

// Answers is the structured output of one meal interview.
type Answers struct {
	ObtainMethod      string     `json:"obtain_method"`                // Q1
	TimeBucket        TimeBucket `json:"time_bucket"`                  // Q2
	DurationBucket    string     `json:"duration_bucket"`              // Q3
	TimeJustification string     `json:"time_justification,omitempty"` // Q_TIME_FOLLOWUP
	What              string     `json:"what"`                         // Q4
	Portion           string     `json:"portion"`                      // Q5
	Why               string     `json:"why"`                          // Q6
}

// FreeTexts returns the open-ended answers in interview order.
func (a Answers) FreeTexts() []string {
	out := make([]string, 0, 4)
	if a.TimeJustification != "" {
		out = append(out, a.TimeJustification)
	}
	return append(out, a.What, a.Portion, a.Why)
}

// Record is one persisted meal diary entry. At most one record exists
// per (player, day, meal type); the submission gate enforces this.
type Record struct {
	PlayerID   string          `json:"player_id"`
	Day        int             `json:"day"`
	NPCID      string          `json:"npc_id"`
	MealType   Type            `json:"meal_type"`
	Answers    Answers         `json:"answers"`
	Transcript chat.Transcript `json:"transcript,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Key identifies a record for idempotent submission.
func (r *Record) Key() string {
	return RecordKey(r.PlayerID, r.Day, r.MealType)
}

// RecordKey builds the at-most-once submission key for (player, day, meal).
func RecordKey(playerID string, day int, t Type) string {
	return fmt.Sprintf("%s:%d:%s", playerID, day, t)
}
