package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sunvale/sevendays/internal/storage"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/npc"
)

func main() {
	dataDir := "./data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	validator := &CastValidator{}
	if err := validator.validateDir(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Cast data is valid!")
}

type CastValidator struct {
	errors []string
}

func (v *CastValidator) validateDir(dataDir string) error {
	fmt.Printf("Validating %s...\n", dataDir)

	cast, err := storage.LoadCast(dataDir)
	if err != nil {
		return err
	}
	if cast == nil {
		return fmt.Errorf("no npcs.yaml found in %s", dataDir)
	}

	v.errors = nil
	days := make(map[int]string)
	for i := range cast {
		v.validateNPC(&cast[i], days)
	}
	for day := 1; day <= npc.FinalDay; day++ {
		if _, ok := days[day]; !ok {
			v.addError(fmt.Sprintf("no npc for day %d", day))
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}

	// NewCatalog re-checks duplicates and day bounds.
	if _, err := npc.NewCatalog(cast); err != nil {
		return err
	}
	return nil
}

func (v *CastValidator) validateNPC(n *npc.NPC, days map[int]string) {
	if !isValidID(n.ID) {
		v.addError(fmt.Sprintf("npc ID '%s' should be lowercase snake_case", n.ID))
	}
	if n.Day < 1 || n.Day > npc.FinalDay {
		v.addError(fmt.Sprintf("npc %s has day %d outside 1..%d", n.ID, n.Day, npc.FinalDay))
	}
	if other, dup := days[n.Day]; dup {
		v.addError(fmt.Sprintf("npcs %s and %s share day %d", other, n.ID, n.Day))
	}
	days[n.Day] = n.ID

	v.validateText(n.ID, "name", n.Name)
	v.validateText(n.ID, "persona", n.Persona)

	for _, l := range []lang.Lang{lang.English, lang.Chinese} {
		if len(n.TriggerPhrases[l]) == 0 {
			v.addError(fmt.Sprintf("npc %s has no %s trigger phrases", n.ID, l))
		}
	}

	for _, tier := range clue.Tiers {
		text, ok := n.Clues[tier]
		if !ok || text.Empty() {
			v.addError(fmt.Sprintf("npc %s has no %s clue text", n.ID, tier))
		}
	}
}

func (v *CastValidator) validateText(npcID, field string, t lang.Text) {
	if t.EN == "" {
		v.addError(fmt.Sprintf("npc %s has no English %s", npcID, field))
	}
	if t.ZH == "" {
		v.addError(fmt.Sprintf("npc %s has no Chinese %s", npcID, field))
	}
}

func (v *CastValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
