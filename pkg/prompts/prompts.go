// Package prompts builds the system prompts for the two AI backends.
// Templates are kept here so the backend adapters stay thin wire code.
package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
)

// InterviewDoneMarker is appended by the interview model when it
// considers the interview finished. Stripped before display.
const InterviewDoneMarker = "[DONE]"

// PersonaSystemPromptEN is the free-chat system prompt. The character
// name and persona sketch are substituted in.
const PersonaSystemPromptEN = `You are playing a character in a village narrative game. Stay in character and reply in English, at most three sentences per turn.

Character: %s
Sketch: %s

When it feels natural, steer the conversation toward what the player has eaten today.`

const PersonaSystemPromptZH = `你在一个乡村叙事游戏中扮演一个角色，请始终保持角色设定，用中文回复，每次不超过三句话。

角色：%s
设定：%s

在自然的时机，你可以把话题引向玩家今天吃了什么。`

// InterviewSystemPromptEN drives the free-form meal interview. The
// character name, meal name, fixed answers and done marker are
// substituted in.
const InterviewSystemPromptEN = `You are %s, gently interviewing the player about their %s. Known fixed answers: %s. ` +
	`Ask one short question at a time, covering in order: what they ate, how much and how it felt, and why. ` +
	`When you have enough, close with a brief thank-you and append %s at the end. Reply in English.`

const InterviewSystemPromptZH = `你是%s，正在温和地询问玩家的%s。已知的选择题答案：%s。` +
	`每次只问一个简短的问题，依次了解：吃了什么、吃了多少和感受、为什么这样吃。` +
	`当信息足够时，说一句感谢的结束语并在末尾加上 %s。用中文回复。`

// SummarySystemPromptEN produces the end-of-game artifacts from the
// JSON meal diary.
const SummarySystemPromptEN = `You are a village physician who has followed the player's meals for seven days. ` +
	`From the JSON meal diary, produce a JSON object with the fields "letter" (a warm closing letter), ` +
	`"seven_day_summary" (a review of the week's eating), "health_notes" (dietary advice) and ` +
	`"recipe" (one recommended recipe). Write everything in English.`

const SummarySystemPromptZH = `你是一位乡村医师，刚刚陪伴玩家记录了七天的饮食。请根据 JSON 格式的饮食日记，` +
	`输出一个 JSON 对象，字段为 letter（一封温暖的信）、seven_day_summary（七天饮食回顾）、` +
	`health_notes（饮食建议）、recipe（一道推荐食谱）。全部用中文。`

// PersonaSystem renders the persona system prompt for one NPC.
func PersonaSystem(n *npc.NPC, l lang.Lang) string {
	template := PersonaSystemPromptEN
	if l == lang.Chinese {
		template = PersonaSystemPromptZH
	}
	return fmt.Sprintf(template, n.Name.Pick(l), n.Persona.Pick(l))
}

// GreetingCue is the synthetic user turn that makes the NPC speak
// first when a conversation opens.
func GreetingCue(l lang.Lang) string {
	if l == lang.Chinese {
		return "（玩家向你走来，和你打招呼。）"
	}
	return "(The player walks up and greets you.)"
}

// InterviewSystem renders the interview system prompt with the fixed
// answers already collected.
func InterviewSystem(n *npc.NPC, t meal.Type, fixed meal.Answers, l lang.Lang) string {
	fixedJSON, _ := json.Marshal(fixed)
	template := InterviewSystemPromptEN
	if l == lang.Chinese {
		template = InterviewSystemPromptZH
	}
	return fmt.Sprintf(template, n.Name.Pick(l), t.Name(l), fixedJSON, InterviewDoneMarker)
}

// SummarySystem renders the final-summary system prompt.
func SummarySystem(l lang.Lang) string {
	if l == lang.Chinese {
		return SummarySystemPromptZH
	}
	return SummarySystemPromptEN
}
