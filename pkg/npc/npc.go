// Package npc holds the cast of the seven days: who appears on which
// day, how they talk, and which clues they hold.
package npc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
)

// ErrUnknownNPC indicates an NPC id with no catalog entry. This is a
// config or programmer error and is fatal to the session that hit it.
var ErrUnknownNPC = errors.New("unknown npc id")

// FinalDay is the last in-game day. Completing its NPC ends the game.
const FinalDay = 7

// NPC is one cast member, authored in data/npcs.yaml.
type NPC struct {
	ID      string    `yaml:"id" json:"id"`
	Day     int       `yaml:"day" json:"day"` // day of unlock, 1..7
	Name    lang.Text `yaml:"name" json:"name"`
	Persona lang.Text `yaml:"persona" json:"persona"` // character sketch fed to the persona backend

	// TriggerPhrases steer free chat toward meal recording: when one
	// appears in a persona reply the machine offers the recording choice.
	TriggerPhrases map[lang.Lang][]string `yaml:"trigger_phrases" json:"trigger_phrases,omitempty"`

	// Clues are the narrative reveals, keyed by tier.
	Clues map[clue.Tier]lang.Text `yaml:"clues" json:"-"`
}

// Clue returns the localized clue text for a tier.
func (n *NPC) Clue(tier clue.Tier, l lang.Lang) string {
	return n.Clues[tier].Pick(l)
}

// Catalog is the full cast, indexed by id and by day.
type Catalog struct {
	byID  map[string]*NPC
	byDay map[int]*NPC
}

// NewCatalog builds a catalog from a cast list. It rejects duplicate
// ids, duplicate days and days outside 1..FinalDay.
func NewCatalog(cast []NPC) (*Catalog, error) {
	c := &Catalog{
		byID:  make(map[string]*NPC, len(cast)),
		byDay: make(map[int]*NPC, len(cast)),
	}
	for i := range cast {
		n := &cast[i]
		if n.ID == "" {
			return nil, fmt.Errorf("npc at index %d has no id", i)
		}
		if n.Day < 1 || n.Day > FinalDay {
			return nil, fmt.Errorf("npc %s has day %d outside 1..%d", n.ID, n.Day, FinalDay)
		}
		if _, dup := c.byID[n.ID]; dup {
			return nil, fmt.Errorf("duplicate npc id %s", n.ID)
		}
		if other, dup := c.byDay[n.Day]; dup {
			return nil, fmt.Errorf("npcs %s and %s share day %d", other.ID, n.ID, n.Day)
		}
		c.byID[n.ID] = n
		c.byDay[n.Day] = n
	}
	return c, nil
}

// Get looks up an NPC by id.
func (c *Catalog) Get(id string) (*NPC, error) {
	n, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNPC, id)
	}
	return n, nil
}

// ByDay returns the NPC for a given day, if any.
func (c *Catalog) ByDay(day int) (*NPC, bool) {
	n, ok := c.byDay[day]
	return n, ok
}

// NextAfter returns the NPC of the following day, or nil when the given
// NPC belongs to the final day.
func (c *Catalog) NextAfter(n *NPC) *NPC {
	next, ok := c.byDay[n.Day+1]
	if !ok {
		return nil
	}
	return next
}

// All returns the cast ordered by day.
func (c *Catalog) All() []*NPC {
	out := make([]*NPC, 0, len(c.byID))
	for _, n := range c.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Len returns the cast size.
func (c *Catalog) Len() int { return len(c.byID) }
