// Package questions holds the static catalog of meal-interview questions
// and their deterministic ordering. The bank is a pure lookup table with
// no side effects.
package questions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
)

// ErrUnknownQuestion indicates a question id with no catalog entry.
// This is a programmer or content error, never a player-facing one.
var ErrUnknownQuestion = errors.New("unknown question id")

// ID identifies a question in the bank.
type ID string

const (
	Q1              ID = "Q1"              // how was the meal obtained
	Q2              ID = "Q2"              // when was it eaten
	Q3              ID = "Q3"              // how long did it take
	QTimeFollowUp   ID = "Q_TIME_FOLLOWUP" // why at that time (conditional)
	Q4              ID = "Q4"              // what was eaten
	Q5              ID = "Q5"              // how much, and how did it feel
	Q6              ID = "Q6"              // why this meal
	mealPlaceholder    = "[MEAL]"
)

// Option is one fixed-choice answer. Value is the stable machine value
// stored on the meal record; the label is what the player sees.
type Option struct {
	Value string
	Label lang.Text
}

// Question is a single catalog entry. Fixed-choice questions carry a
// non-empty Options list; free-form questions have none.
type Question struct {
	ID      ID
	Prompt  lang.Text
	Options []Option
}

// Fixed reports whether the question is answered from an option list.
func (q Question) Fixed() bool {
	return len(q.Options) > 0
}

// PromptFor renders the localized prompt with the meal-type placeholder
// substituted.
func (q Question) PromptFor(l lang.Lang, t meal.Type) string {
	return strings.ReplaceAll(q.Prompt.Pick(l), mealPlaceholder, t.Name(l))
}

// OptionByValue finds a fixed-choice option by its stable value.
func (q Question) OptionByValue(v string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

var bank = map[ID]Question{
	Q1: {
		ID: Q1,
		Prompt: lang.Text{
			EN: "How did you get your " + mealPlaceholder + "?",
			ZH: "你的" + mealPlaceholder + "是怎么来的？",
		},
		Options: []Option{
			{Value: "home_cooked", Label: lang.Text{EN: "Cooked at home", ZH: "自己做的"}},
			{Value: "eat_out", Label: lang.Text{EN: "Ate out", ZH: "外面吃的"}},
			{Value: "takeaway", Label: lang.Text{EN: "Takeaway / delivery", ZH: "外卖"}},
			{Value: "packaged", Label: lang.Text{EN: "Packaged or instant food", ZH: "包装食品或速食"}},
		},
	},
	Q2: {
		ID: Q2,
		Prompt: lang.Text{
			EN: "When did you eat your " + mealPlaceholder + "?",
			ZH: "你是什么时候吃" + mealPlaceholder + "的？",
		},
		Options: []Option{
			{Value: string(meal.TimeMorning), Label: lang.Text{EN: "Morning (before 10AM)", ZH: "早上（10点前）"}},
			{Value: string(meal.TimeNoon), Label: lang.Text{EN: "Midday (10AM–2PM)", ZH: "中午（10点到14点）"}},
			{Value: string(meal.TimeAfternoon), Label: lang.Text{EN: "Afternoon (2PM–5PM)", ZH: "下午（14点到17点）"}},
			{Value: string(meal.TimeEvening), Label: lang.Text{EN: "Evening (5PM–9PM)", ZH: "傍晚（17点到21点）"}},
			{Value: string(meal.TimeNight), Label: lang.Text{EN: "Night (after 9PM)", ZH: "深夜（21点后）"}},
		},
	},
	Q3: {
		ID: Q3,
		Prompt: lang.Text{
			EN: "How long did the " + mealPlaceholder + " take?",
			ZH: "这顿" + mealPlaceholder + "花了多长时间？",
		},
		Options: []Option{
			{Value: "under_10", Label: lang.Text{EN: "Under 10 minutes", ZH: "10分钟以内"}},
			{Value: "10_to_30", Label: lang.Text{EN: "10–30 minutes", ZH: "10到30分钟"}},
			{Value: "over_30", Label: lang.Text{EN: "Over 30 minutes", ZH: "30分钟以上"}},
		},
	},
	QTimeFollowUp: {
		ID: QTimeFollowUp,
		Prompt: lang.Text{
			EN: "That's an unusual time for " + mealPlaceholder + ". What made you eat then?",
			ZH: "这个时间吃" + mealPlaceholder + "不太寻常，为什么是这个时间呢？",
		},
	},
	Q4: {
		ID: Q4,
		Prompt: lang.Text{
			EN: "What did you have for your " + mealPlaceholder + "?",
			ZH: "你" + mealPlaceholder + "吃了什么？",
		},
	},
	Q5: {
		ID: Q5,
		Prompt: lang.Text{
			EN: "How much did you eat, and how did you feel afterwards?",
			ZH: "你吃了多少？吃完之后感觉怎么样？",
		},
	},
	Q6: {
		ID: Q6,
		Prompt: lang.Text{
			EN: "Why did you choose this " + mealPlaceholder + "?",
			ZH: "你为什么选择这样吃" + mealPlaceholder + "？",
		},
	},
}

// Get looks up a question by id.
func Get(id ID) (Question, error) {
	q, ok := bank[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	return q, nil
}

// First returns the opening question of every interview.
func First() ID { return Q1 }

// Next implements the question ordering:
// Q1 -> Q2 -> Q3 -> (Q_TIME_FOLLOWUP if flagged) -> Q4 -> Q5 -> Q6 -> "".
// An empty return means the interview has no further scripted questions.
func Next(current ID, needsTimeFollowUp bool) ID {
	switch current {
	case Q1:
		return Q2
	case Q2:
		return Q3
	case Q3:
		if needsTimeFollowUp {
			return QTimeFollowUp
		}
		return Q4
	case QTimeFollowUp:
		return Q4
	case Q4:
		return Q5
	case Q5:
		return Q6
	default:
		return ""
	}
}

// FixedIDs lists the fixed-choice questions in interview order.
func FixedIDs() []ID { return []ID{Q1, Q2, Q3} }
