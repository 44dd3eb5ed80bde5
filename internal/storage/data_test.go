package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/npc"
)

const testNPCsYAML = `npcs:
  - id: village_head
    day: 1
    name:
      en: "Old Shan"
      zh: "老山"
    persona:
      en: "The village head."
      zh: "村长。"
    trigger_phrases:
      en: ["what did you eat"]
      zh: ["你吃了什么"]
  - id: baker
    day: 2
    name:
      en: "Mirren"
      zh: "米伦"
    persona:
      en: "The baker."
      zh: "面包师。"
`

const testCluesYAML = `clues:
  village_head:
    vague1:
      en: "Something happened at the harbor."
      zh: "港口出过事。"
    true:
      en: "He left on the seventh morning."
      zh: "他在第七天早上离开了。"
`

func writeTestData(t *testing.T, npcs, clues string) string {
	t.Helper()
	dir := t.TempDir()
	if npcs != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, npcsFile), []byte(npcs), 0o644))
	}
	if clues != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, cluesFile), []byte(clues), 0o644))
	}
	return dir
}

func TestLoadCast(t *testing.T) {
	dir := writeTestData(t, testNPCsYAML, testCluesYAML)

	cast, err := LoadCast(dir)
	require.NoError(t, err)
	require.Len(t, cast, 2)

	head := cast[0]
	assert.Equal(t, "village_head", head.ID)
	assert.Equal(t, 1, head.Day)
	assert.Equal(t, "Old Shan", head.Name.Pick(lang.English))
	assert.Equal(t, "老山", head.Name.Pick(lang.Chinese))
	assert.Equal(t, []string{"what did you eat"}, head.TriggerPhrases[lang.English])

	// Clue texts from clues.yaml are merged onto the cast.
	assert.Equal(t, "Something happened at the harbor.", head.Clues[clue.TierVague1].Pick(lang.English))
	assert.Equal(t, "他在第七天早上离开了。", head.Clues[clue.TierTrue].Pick(lang.Chinese))

	// NPCs without clue entries keep an empty clue map.
	assert.Empty(t, cast[1].Clues)
}

func TestLoadCast_MissingFile(t *testing.T) {
	cast, err := LoadCast(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cast, "missing npcs.yaml is not an error")
}

func TestLoadCast_EmptyCast(t *testing.T) {
	dir := writeTestData(t, "npcs: []\n", "")
	_, err := LoadCast(dir)
	assert.Error(t, err)
}

func TestLoadCast_MalformedYAML(t *testing.T) {
	dir := writeTestData(t, "npcs: [not: {valid", "")
	_, err := LoadCast(dir)
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("from data dir", func(t *testing.T) {
		dir := writeTestData(t, testNPCsYAML, testCluesYAML)
		cat, err := LoadCatalog(dir, logger)
		require.NoError(t, err)
		assert.Equal(t, 2, cat.Len())
	})

	t.Run("built-in fallback", func(t *testing.T) {
		cat, err := LoadCatalog(t.TempDir(), logger)
		require.NoError(t, err)
		assert.Equal(t, npc.FinalDay, cat.Len())
	})

	t.Run("duplicate days rejected", func(t *testing.T) {
		bad := `npcs:
  - id: a
    day: 1
    name: {en: "A", zh: "甲"}
    persona: {en: "x", zh: "x"}
  - id: b
    day: 1
    name: {en: "B", zh: "乙"}
    persona: {en: "y", zh: "y"}
`
		dir := writeTestData(t, bad, "")
		_, err := LoadCatalog(dir, logger)
		assert.Error(t, err)
	})
}
