package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/raid-planner/internal/planner/cli"
)

var exports = map[string]string{
	"materials.json": `[
  {"id": "iron", "label": "Iron Ingot", "rarity": "Common", "craftable": false},
  {"id": "gear", "label": "Cog Gear", "rarity": "Uncommon", "craftable": false},
  {"id": "widget", "label": "Widget", "rarity": "Rare", "craftable": true,
   "recipe": [{"material": "iron", "count": 2}, {"material": "gear", "count": 1}]}
]`,
	"campaigns.json": `{
  "configs": [
    {"type": "Normal", "energyCost": 10, "dailyBattleCount": 3,
     "dropRate": {"Common": 1.0, "Uncommon": 0.5}}
  ],
  "campaigns": [{"name": "Indomitus", "type": "Normal"}],
  "battles": [
    {"campaign": "Indomitus", "nodeNumber": 1, "reward": "iron"},
    {"campaign": "Indomitus", "nodeNumber": 2, "reward": "gear"},
    {"campaign": "Indomitus", "nodeNumber": 9, "reward": "iron"}
  ]
}`,
	"characters.json": `[
  {"id": "alpha", "name": "Alpha", "upgrades": {"Stone I": ["widget", "iron"]}}
]`,
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func importedDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range exports {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	dbPath := filepath.Join(t.TempDir(), "static.db")

	out, err := run(t, "import", dir, "--db", dbPath)
	require.NoError(t, err)
	require.Contains(t, out, "Imported static data")
	require.Contains(t, out, "Dataset: 3 materials, 3 battles, 1 characters")
	return dbPath
}

func TestImport_MissingDirectory(t *testing.T) {
	_, err := run(t, "import", filepath.Join(t.TempDir(), "absent"), "--db", filepath.Join(t.TempDir(), "x.db"))

	assert.Error(t, err)
}

func TestRecipe(t *testing.T) {
	// Arrange
	dbPath := importedDB(t)

	// Act
	out, err := run(t, "recipe", "widget", "--db", dbPath)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "widget needs:")
	assert.Contains(t, out, "1 x gear")
	assert.Contains(t, out, "2 x iron")
}

func TestRecipe_UnknownMaterial(t *testing.T) {
	dbPath := importedDB(t)

	_, err := run(t, "recipe", "widgit", "--db", dbPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "material not found: widgit")
	assert.Contains(t, err.Error(), "did you mean widget")
}

func TestLocations(t *testing.T) {
	// Arrange
	dbPath := importedDB(t)

	// Act
	out, err := run(t, "locations", "iron", "--progress", "Indomitus=5", "--db", dbPath)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Indomitus 1")
	assert.Contains(t, out, "Locked:")
	assert.Contains(t, out, "Indomitus 9")
}

func TestEstimate(t *testing.T) {
	// Arrange
	dbPath := importedDB(t)
	goals := filepath.Join(t.TempDir(), "goals.json")
	require.NoError(t, os.WriteFile(goals, []byte(`{
  "settings": {"daily_energy": 100, "campaigns_progress": {"Indomitus": 2}},
  "goals": [{"character_id": "alpha", "rank_start": "Stone I", "rank_end": "Stone II"}]
}`), 0o600))

	// Act
	out, err := run(t, "estimate", "--goals", goals, "--db", dbPath)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Total energy:")
	assert.Contains(t, out, "Iron Ingot")
	assert.Contains(t, out, "Plan ID:")
}

func TestEstimate_RequiresGoals(t *testing.T) {
	_, err := run(t, "estimate")

	assert.Error(t, err)
}
