// Package progress tracks a player's journey through the seven days:
// which NPCs are unlocked, which meals remain recordable today, and
// when the day advances.
package progress

import (
	"time"

	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/meal"
	"github.com/sunvale/sevendays/pkg/npc"
)

// NPCState is the per-player state of one NPC.
type NPCState struct {
	// GreetedDay is the last day the player opened free chat with this
	// NPC; 0 means never. A repeat visit on the same day skips the
	// greeting chat and goes straight to meal selection.
	GreetedDay int `json:"greeted_day,omitempty"`

	// MealsRemaining are the meal types still recordable with this NPC
	// on MealsDay. Reset when the day changes.
	MealsRemaining []meal.Type `json:"meals_remaining,omitempty"`
	MealsDay       int         `json:"meals_day,omitempty"`

	HasRecordedAnyMeal  bool               `json:"has_recorded_any_meal,omitempty"`
	CluesGranted        map[clue.Tier]bool `json:"clues_granted,omitempty"`
	InteractionComplete bool               `json:"interaction_complete,omitempty"`
}

// Progress is the process-wide per-player game state. It is mutated
// only through the methods below, and day advancement only through the
// Controller.
type Progress struct {
	PlayerID   string `json:"player_id"`
	CurrentDay int    `json:"current_day"` // 1..npc.FinalDay
	Completed  bool   `json:"completed"`

	// DailyMealsRecorded counts recorded meals per day.
	DailyMealsRecorded map[int]int `json:"daily_meals_recorded,omitempty"`

	NPCs map[string]*NPCState `json:"npcs,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// New starts a fresh game on day 1.
func New(playerID string) *Progress {
	return &Progress{
		PlayerID:           playerID,
		CurrentDay:         1,
		DailyMealsRecorded: make(map[int]int),
		NPCs:               make(map[string]*NPCState),
		UpdatedAt:          time.Now(),
	}
}

// NPCState returns the state for an NPC, creating it on first access.
func (p *Progress) NPCState(npcID string) *NPCState {
	if p.NPCs == nil {
		p.NPCs = make(map[string]*NPCState)
	}
	s, ok := p.NPCs[npcID]
	if !ok {
		s = &NPCState{}
		p.NPCs[npcID] = s
	}
	return s
}

// AvailableMeals returns the meal types still recordable with an NPC
// today, resetting the per-day availability when the day has changed.
func (p *Progress) AvailableMeals(npcID string) []meal.Type {
	s := p.NPCState(npcID)
	if s.MealsDay != p.CurrentDay {
		s.MealsDay = p.CurrentDay
		s.MealsRemaining = append([]meal.Type(nil), meal.All...)
	}
	return s.MealsRemaining
}

// ConsumeMeal removes a meal type from today's availability. It returns
// false when the meal type is not available.
func (p *Progress) ConsumeMeal(npcID string, t meal.Type) bool {
	avail := p.AvailableMeals(npcID)
	s := p.NPCState(npcID)
	for i, m := range avail {
		if m == t {
			s.MealsRemaining = append(avail[:i:i], avail[i+1:]...)
			return true
		}
	}
	return false
}

// MarkGreeted records that the NPC has been greeted today.
func (p *Progress) MarkGreeted(npcID string) {
	p.NPCState(npcID).GreetedDay = p.CurrentDay
}

// GreetedToday reports whether the NPC was already greeted today.
func (p *Progress) GreetedToday(npcID string) bool {
	return p.NPCState(npcID).GreetedDay == p.CurrentDay
}

// RecordMeal notes a successfully persisted meal record.
func (p *Progress) RecordMeal(npcID string, day int) {
	if p.DailyMealsRecorded == nil {
		p.DailyMealsRecorded = make(map[int]int)
	}
	p.DailyMealsRecorded[day]++
	p.NPCState(npcID).HasRecordedAnyMeal = true
	p.UpdatedAt = time.Now()
}

// GrantClue marks a clue tier as granted. It returns false when the
// tier was already granted, which keeps the true clue at-most-once.
func (p *Progress) GrantClue(npcID string, tier clue.Tier) bool {
	s := p.NPCState(npcID)
	if s.CluesGranted == nil {
		s.CluesGranted = make(map[clue.Tier]bool)
	}
	if s.CluesGranted[tier] {
		return false
	}
	s.CluesGranted[tier] = true
	p.UpdatedAt = time.Now()
	return true
}

// CanInteract reports whether the player may open dialogue with an NPC.
// An NPC is reachable once its day has arrived and the previous day's
// NPC has recorded at least one meal.
func (p *Progress) CanInteract(cat *npc.Catalog, npcID string) (bool, error) {
	n, err := cat.Get(npcID)
	if err != nil {
		return false, err
	}
	if n.Day > p.CurrentDay {
		return false, nil
	}
	if n.Day == 1 {
		return true, nil
	}
	prev, ok := cat.ByDay(n.Day - 1)
	if !ok {
		return false, nil
	}
	return p.NPCState(prev.ID).HasRecordedAnyMeal, nil
}
