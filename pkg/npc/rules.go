package npc

import (
	"strings"

	"github.com/sunvale/sevendays/pkg/lang"
)

// PhraseRules is a per-language substring rule table. Matching is data
// driven so new NPCs and languages extend the tables, not the code.
type PhraseRules map[lang.Lang][]string

// Match reports whether any rule phrase for l occurs in text.
// Matching is case-insensitive for latin text.
func (r PhraseRules) Match(l lang.Lang, text string) bool {
	lowered := strings.ToLower(text)
	for _, p := range r[l] {
		if p == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// DefaultEndingRules detect when an interview reply is a closing
// statement rather than another question. A reply that matches but
// still ends in a question mark is not treated as an ending; that check
// belongs to the dialogue machine.
func DefaultEndingRules() PhraseRules {
	return PhraseRules{
		lang.English: {
			"thank you for sharing",
			"thanks for telling me",
			"that's all i wanted to ask",
			"i have everything i need",
			"enjoy the rest of your day",
		},
		lang.Chinese: {
			"谢谢你的分享",
			"谢谢你告诉我",
			"我想问的就这些",
			"我都记下了",
			"祝你今天愉快",
		},
	}
}

// EndsWithQuestionMark reports whether the reply closes on a question,
// in either script.
func EndsWithQuestionMark(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasSuffix(trimmed, "?") || strings.HasSuffix(trimmed, "？")
}

// TriggeredBy reports whether a persona reply contains one of the NPC's
// trigger phrases for the given language.
func (n *NPC) TriggeredBy(l lang.Lang, reply string) bool {
	return PhraseRules(n.TriggerPhrases).Match(l, reply)
}
