package progress

import (
	"time"

	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/npc"
)

// Outcome describes what a completion event changed. The engine turns
// it into persistence calls and, on game completion, a summary job.
type Outcome struct {
	NPCCompleted  bool   `json:"npc_completed"`
	DayAdvanced   bool   `json:"day_advanced"`
	NewDay        int    `json:"new_day,omitempty"`
	UnlockedNPCID string `json:"unlocked_npc_id,omitempty"`
	GameCompleted bool   `json:"game_completed"`
}

// Controller owns all mutations of day advancement and NPC completion.
// Decisions are made exactly once per NPC-completion event: the
// InteractionComplete flag guards re-entry.
type Controller struct {
	cat *npc.Catalog
}

// NewController creates a progression controller over a cast catalog.
func NewController(cat *npc.Catalog) *Controller {
	return &Controller{cat: cat}
}

// OnClueGranted applies the progression consequences of a granted clue.
// Only the true tier completes an NPC; vague tiers change nothing here.
func (c *Controller) OnClueGranted(p *Progress, npcID string, tier clue.Tier) (Outcome, error) {
	if tier != clue.TierTrue {
		return Outcome{}, nil
	}
	return c.completeNPC(p, npcID)
}

// completeNPC marks the NPC's interaction complete and, when it is the
// active NPC of the current day, advances the day or ends the game.
func (c *Controller) completeNPC(p *Progress, npcID string) (Outcome, error) {
	n, err := c.cat.Get(npcID)
	if err != nil {
		return Outcome{}, err
	}

	s := p.NPCState(npcID)
	if s.InteractionComplete {
		// Already decided for this NPC; never advance twice.
		return Outcome{}, nil
	}
	s.InteractionComplete = true
	p.UpdatedAt = time.Now()

	out := Outcome{NPCCompleted: true}
	if n.Day != p.CurrentDay {
		return out, nil
	}

	if n.Day == npc.FinalDay {
		p.Completed = true
		out.GameCompleted = true
		return out, nil
	}

	p.CurrentDay = n.Day + 1
	out.DayAdvanced = true
	out.NewDay = p.CurrentDay
	if next := c.cat.NextAfter(n); next != nil {
		out.UnlockedNPCID = next.ID
	}
	return out, nil
}
