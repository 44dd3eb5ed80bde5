package services

import "github.com/sunvale/sevendays/pkg/lang"

// Canned lines substituted when a backend call fails or times out. They
// are deterministic per language so a dead backend still yields a
// playable, reproducible conversation.

var personaFallbacks = lang.Text{
	EN: "(The villager nods slowly, lost in thought for a moment.)",
	ZH: "（对方缓缓点头，一时陷入了沉思。）",
}

var interviewFallbacks = lang.Text{
	EN: "I see. Thank you for telling me about your meal.",
	ZH: "我明白了，谢谢你和我说这顿饭的事。",
}

var summaryFallbacks = lang.Text{
	EN: "Seven days of shared meals tell their own story. Eat well, and come back to Sunvale someday.",
	ZH: "七天同桌的饭菜自会讲述它们的故事。好好吃饭，有空再回阳谷村看看。",
}

// PersonaFallback is the line shown when the persona backend is down.
func PersonaFallback(l lang.Lang) string {
	return personaFallbacks.Pick(l)
}

// InterviewFallback is the line shown when the interview backend is
// down.
func InterviewFallback(l lang.Lang) string {
	return interviewFallbacks.Pick(l)
}

// FallbackSummary is the summary used when generation fails for good.
func FallbackSummary(l lang.Lang) *Summary {
	return &Summary{Letter: summaryFallbacks.Pick(l)}
}
