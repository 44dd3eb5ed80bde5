package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptAppendAndTail(t *testing.T) {
	var tr Transcript
	tr = tr.Append(ChatRoleUser, "hello")
	tr = tr.Append(ChatRoleAgent, "well met")
	tr = tr.Append(ChatRoleUser, "what's for dinner?")

	assert.Len(t, tr, 3)
	assert.Equal(t, ChatRoleUser, tr[0].Role)

	tail := tr.Tail(2)
	assert.Len(t, tail, 2)
	assert.Equal(t, "well met", tail[0].Content)

	// Tail larger than the transcript returns everything.
	assert.Len(t, tr.Tail(10), 3)
	assert.Len(t, tr.Tail(0), 3)
}

func TestTranscriptRender(t *testing.T) {
	tr := Transcript{
		{Role: ChatRoleSystem, Content: "instructions"},
		{Role: ChatRoleUser, Content: "I had rice and eggs."},
		{Role: ChatRoleAgent, Content: "Sounds hearty. How much?"},
	}

	rendered := tr.Render("Player", "Village Head")
	assert.Equal(t, "Player: I had rice and eggs.\nVillage Head: Sounds hearty. How much?", rendered)
}
