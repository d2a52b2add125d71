package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/raid-planner/internal/planner/db"
	"github.com/rsned/raid-planner/pkg/planner"
)

const materialsJSON = `[
  {"id": "iron", "label": "Iron Ingot", "rarity": "Common", "stat": "Armour", "craftable": false},
  {"id": "gear", "label": "Cog Gear", "rarity": "uncommon", "craftable": false},
  {"id": "widget", "label": "Widget", "rarity": "Rare", "craftable": true,
   "recipe": [{"material": "iron", "count": 2}, {"id": "gear", "count": 1}, {"material": "dust", "count": 0}]}
]`

const campaignsJSON = `{
  "configs": [
    {"type": "Normal", "energyCost": 10, "dailyBattleCount": 3, "expectedGold": 100,
     "dropRate": {"Common": 1.0, "Uncommon": 0.5, "Rare": 0.25}}
  ],
  "campaigns": [{"name": "Indomitus", "type": "Normal"}],
  "battles": [
    {"campaign": "Indomitus", "nodeNumber": 1, "reward": "iron"},
    {"campaign": "Indomitus", "nodeNumber": 2, "reward": "gear"},
    {"campaign": "", "nodeNumber": 3, "reward": "gear"}
  ]
}`

const charactersJSON = `[
  {"id": "alpha", "name": "Alpha", "upgrades": {"Stone I": ["widget", "iron"], "Stone II": ["gear"]}}
]`

func newTestSyncer(t *testing.T) (*Syncer, *db.DB) {
	t.Helper()

	database, err := db.Open(context.Background(), db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewSyncer(database, slog.New(slog.DiscardHandler)), database
}

func writeExports(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestTransformMaterial(t *testing.T) {
	// Arrange
	var imp MaterialImport
	require.NoError(t, json.Unmarshal([]byte(`{"id": "widget", "rarity": "rare", "craftable": true,
		"recipe": [{"id": "gear", "count": 1}, {"count": 4}]}`), &imp))

	// Act
	m, err := transformMaterial(imp)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "widget", m.Label)
	assert.Equal(t, planner.RarityRare, m.Rarity)
	assert.Equal(t, planner.StatUnknown, m.Stat)
	assert.Equal(t, []planner.RecipeItem{{MaterialID: "gear", Count: 1}}, m.Recipe)
}

func TestTransformMaterial_Errors(t *testing.T) {
	_, err := transformMaterial(MaterialImport{Label: "Nameless", Rarity: "Common"})
	assert.Error(t, err)

	_, err = transformMaterial(MaterialImport{ID: "odd", Rarity: "Sparkly"})
	assert.ErrorContains(t, err, "odd")
}

func TestTransformCampaignConfig(t *testing.T) {
	cfg, err := transformCampaignConfig(CampaignConfigImport{
		Type:       "Elite",
		EnergyCost: 12,
		DropRate:   map[string]float64{"Epic": 0.1},
	})

	require.NoError(t, err)
	assert.Equal(t, map[planner.Rarity]float64{planner.RarityEpic: 0.1}, cfg.DropRate)

	_, err = transformCampaignConfig(CampaignConfigImport{Type: "Elite", DropRate: map[string]float64{"Shiny": 1}})
	assert.Error(t, err)
}

func TestTransformCharacter(t *testing.T) {
	c, err := transformCharacter(CharacterImport{
		ID:       "alpha",
		Upgrades: map[string][]string{"Bronze II": {"x"}, "stone i": {"y", "z"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "alpha", c.Name)
	assert.Equal(t, []string{"x"}, c.Upgrades[planner.RankBronze2])
	assert.Equal(t, []string{"y", "z"}, c.Upgrades[planner.RankStone1])

	_, err = transformCharacter(CharacterImport{ID: "alpha", Upgrades: map[string][]string{"Platinum": nil}})
	assert.Error(t, err)
}

func TestImportDirectory_LoadsStaticData(t *testing.T) {
	// Arrange
	ctx := context.Background()
	syncer, database := newTestSyncer(t)
	dir := writeExports(t, map[string]string{
		MaterialsFile:  materialsJSON,
		CampaignsFile:  campaignsJSON,
		CharactersFile: charactersJSON,
	})

	// Act
	err := syncer.ImportDirectory(ctx, dir)

	// Assert
	require.NoError(t, err)

	data, err := db.LoadStaticData(ctx, database)
	require.NoError(t, err)
	assert.Len(t, data.Materials, 3)
	assert.Equal(t, []planner.RecipeItem{
		{MaterialID: "iron", Count: 2},
		{MaterialID: "gear", Count: 1},
	}, data.Materials["widget"].Recipe)
	assert.Len(t, data.Battles, 2)
	assert.InDelta(t, 0.5, data.Configs["Normal"].DropRate[planner.RarityUncommon], 1e-9)
	assert.Equal(t, []string{"gear"}, data.Characters["alpha"].Upgrades[planner.RankStone2])

	status, err := database.ImportStatus(ctx)
	require.NoError(t, err)
	counts := make(map[string]int)
	for _, r := range status {
		counts[r.Entity] = r.Count
		assert.False(t, r.ImportedAt.IsZero())
	}
	assert.Equal(t, 3, counts["materials"])
	assert.Equal(t, 2, counts["battles"])
	assert.Equal(t, 1, counts["characters"])
}

func TestImportDirectory_Empty(t *testing.T) {
	syncer, _ := newTestSyncer(t)

	err := syncer.ImportDirectory(context.Background(), t.TempDir())

	assert.ErrorContains(t, err, "no export files")
}

func TestImportMaterialsFromFile_BadJSON(t *testing.T) {
	syncer, _ := newTestSyncer(t)
	dir := writeExports(t, map[string]string{MaterialsFile: `{"not": "a list"}`})

	err := syncer.ImportMaterialsFromFile(context.Background(), filepath.Join(dir, MaterialsFile))

	assert.ErrorContains(t, err, "parsing JSON")
}

func TestClearAll(t *testing.T) {
	// Arrange
	ctx := context.Background()
	syncer, database := newTestSyncer(t)
	dir := writeExports(t, map[string]string{
		MaterialsFile:  materialsJSON,
		CampaignsFile:  campaignsJSON,
		CharactersFile: charactersJSON,
	})
	require.NoError(t, syncer.ImportDirectory(ctx, dir))

	// Act
	err := syncer.ClearAll(ctx)

	// Assert
	require.NoError(t, err)
	data, err := db.LoadStaticData(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, data.Materials)
	assert.Empty(t, data.Battles)
	assert.Empty(t, data.Characters)
}
