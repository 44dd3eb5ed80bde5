package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/npc"
)

const (
	npcsFile  = "npcs.yaml"
	cluesFile = "clues.yaml"
)

type npcsDoc struct {
	NPCs []npc.NPC `yaml:"npcs"`
}

type cluesDoc struct {
	Clues map[string]map[clue.Tier]lang.Text `yaml:"clues"`
}

// LoadCatalog reads the cast from dataDir. The clue texts live in a
// separate file so writers can edit the narrative without touching the
// cast definitions. When npcs.yaml is absent the built-in cast is used.
func LoadCatalog(dataDir string, logger *slog.Logger) (*npc.Catalog, error) {
	cast, err := LoadCast(dataDir)
	if err != nil {
		return nil, err
	}
	if cast == nil {
		logger.Info("No cast data found, using built-in cast", "data_dir", dataDir)
		return npc.DefaultCatalog(), nil
	}
	return npc.NewCatalog(cast)
}

// LoadCast reads and merges npcs.yaml and clues.yaml from dataDir. It
// returns nil (and no error) when npcs.yaml does not exist.
func LoadCast(dataDir string) ([]npc.NPC, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, npcsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", npcsFile, err)
	}

	var doc npcsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", npcsFile, err)
	}
	if len(doc.NPCs) == 0 {
		return nil, fmt.Errorf("%s contains no npcs", npcsFile)
	}

	clues, err := loadClueTexts(dataDir)
	if err != nil {
		return nil, err
	}
	for i := range doc.NPCs {
		n := &doc.NPCs[i]
		if texts, ok := clues[n.ID]; ok {
			n.Clues = texts
		}
	}
	return doc.NPCs, nil
}

func loadClueTexts(dataDir string) (map[string]map[clue.Tier]lang.Text, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, cluesFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cluesFile, err)
	}
	var doc cluesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cluesFile, err)
	}
	return doc.Clues, nil
}
