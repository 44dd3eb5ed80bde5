// Package chat defines the message types shared by the dialogue engine
// and the conversational AI backends.
package chat

import "strings"

const (
	ChatRoleUser   = "user"      // the player
	ChatRoleAgent  = "assistant" // the NPC
	ChatRoleSystem = "system"    // engine instructions
)

// ChatMessage is a single turn in a conversation. The role values follow
// the chat-completion convention used by both AI backends.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered conversation history of one session. It is
// stored on the meal record and replayed to the interview backend as
// context for free-form turns.
type Transcript []ChatMessage

// Append adds a turn to the transcript.
func (t Transcript) Append(role, content string) Transcript {
	return append(t, ChatMessage{Role: role, Content: content})
}

// Tail returns at most the last n messages.
func (t Transcript) Tail(n int) Transcript {
	if n <= 0 || len(t) <= n {
		return t
	}
	return t[len(t)-n:]
}

// Render formats the transcript as labeled lines for inclusion in a
// backend prompt. System messages are skipped.
func (t Transcript) Render(playerLabel, npcLabel string) string {
	var sb strings.Builder
	for _, m := range t {
		switch m.Role {
		case ChatRoleUser:
			sb.WriteString(playerLabel)
		case ChatRoleAgent:
			sb.WriteString(npcLabel)
		default:
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
