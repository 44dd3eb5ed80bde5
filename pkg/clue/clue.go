// Package clue implements the narrative clue tiers and the rules for
// deriving a tier from a recorded meal.
package clue

import (
	"time"

	"github.com/sunvale/sevendays/pkg/meal"
)

// Tier is the narrative-reveal level of a clue.
type Tier string

const (
	TierVague1 Tier = "vague1" // breakfast
	TierVague2 Tier = "vague2" // lunch
	TierTrue   Tier = "true"   // dinner: the full clue, names the next NPC
)

// Tiers lists all tiers from least to most revealing.
var Tiers = []Tier{TierVague1, TierVague2, TierTrue}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierVague1 || t == TierVague2 || t == TierTrue
}

// TierFor maps a meal type to its clue tier. The tier is a function of
// the meal type alone: logging meals out of order never promotes a
// non-dinner meal to the true clue.
func TierFor(t meal.Type) (Tier, bool) {
	switch t {
	case meal.Breakfast:
		return TierVague1, true
	case meal.Lunch:
		return TierVague2, true
	case meal.Dinner:
		return TierTrue, true
	}
	return "", false
}

// Record is one granted clue.
type Record struct {
	PlayerID  string    `json:"player_id"`
	NPCID     string    `json:"npc_id"`
	Day       int       `json:"day"`
	Tier      Tier      `json:"tier"`
	Text      string    `json:"text"`
	GrantedAt time.Time `json:"granted_at"`
}

// Precomputed carries a clue decision already made by the submission
// boundary. When present it takes precedence over local derivation.
type Precomputed struct {
	ShouldGiveClue bool
	Tier           Tier
	Text           string
}

// Resolve decides the tier and (optionally) text for a just-recorded
// meal. A backend-precomputed result wins when it carries a valid tier;
// otherwise the tier is derived locally from the meal type and the text
// is left empty for the caller to look up from the NPC catalog.
func Resolve(t meal.Type, pre *Precomputed) (Tier, string, bool) {
	if pre != nil && pre.ShouldGiveClue && pre.Tier.Valid() {
		return pre.Tier, pre.Text, true
	}
	tier, ok := TierFor(t)
	if !ok {
		return "", "", false
	}
	return tier, "", true
}
