package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/raid-planner/internal/planner/engine"
	"github.com/rsned/raid-planner/pkg/planner"
)

func TestEstimateRankUpgrades_SingleMaterialExample(t *testing.T) {
	// Arrange
	e := newTestEngine(t, 0)

	// Act
	est := e.EstimateRankUpgrades(ironSettings(100), grinderGoal())

	// Assert
	require.NotNil(t, est)
	assert.NotEmpty(t, est.PlanID)
	assert.False(t, est.Partial())
	assert.Equal(t, 1000, est.TotalEnergy)
	assert.Equal(t, 34, est.TotalDays)
	assert.Len(t, est.Raids, 34)
	require.Len(t, est.Upgrades, 1)
	assert.Equal(t, "grinder", est.Upgrades[0].CharacterID)
}

func TestEstimateRankUpgrades_FullyOwnedNeedsNothing(t *testing.T) {
	e := newTestEngine(t, 0)
	settings := ironSettings(100)
	settings.Inventory = planner.Inventory{"iron": 100}

	est := e.EstimateRankUpgrades(settings, grinderGoal())

	assert.Equal(t, 0, est.TotalEnergy)
	assert.Equal(t, 0, est.TotalDays)
	assert.Empty(t, est.Raids)
	require.Len(t, est.Materials, 1)
	assert.Equal(t, 0, est.Materials[0].CountLeft)
}

func TestEstimateRankUpgrades_CompletedEnergyIsNotCounted(t *testing.T) {
	e := newTestEngine(t, 0)
	settings := ironSettings(100)
	settings.CompletedLocations = []planner.MaterialRaid{{
		MaterialID: "iron",
		Locations:  []planner.RaidLocation{{LocationID: "Indomitus 1", RaidsCount: 2, EnergySpent: 20}},
	}}

	est := e.EstimateRankUpgrades(settings, grinderGoal())

	assert.Equal(t, 1000, est.TotalEnergy)
	assert.Equal(t, 35, est.TotalDays)
}

func TestEstimateRankUpgrades_NegativeCompletedEnergyIgnored(t *testing.T) {
	e := newTestEngine(t, 0)
	settings := ironSettings(100)
	settings.CompletedLocations = []planner.MaterialRaid{{
		MaterialID: "other",
		Locations:  []planner.RaidLocation{{LocationID: "Indomitus 1", RaidsCount: -5, EnergySpent: -500}},
	}}

	est := e.EstimateRankUpgrades(settings, grinderGoal())

	assert.Equal(t, 0, settings.CompletedEnergy())
	assert.Equal(t, 1000, est.TotalEnergy)
	assert.Equal(t, 34, est.TotalDays)
	for _, day := range est.Raids {
		assert.LessOrEqual(t, day.EnergyLeft, 100)
		assert.GreaterOrEqual(t, day.EnergyLeft, 0)
	}
}

func TestEstimateRankUpgrades_PartialResult(t *testing.T) {
	// Arrange
	e := newTestEngine(t, 50)

	// Act
	est := e.EstimateRankUpgrades(ironSettings(5), grinderGoal())

	// Assert
	assert.True(t, est.Partial())
	require.Len(t, est.Truncations, 1)
	assert.Equal(t, planner.StageSchedule, est.Truncations[0].Stage)
	assert.Equal(t, 0, est.TotalEnergy)
	assert.Equal(t, 0, est.TotalDays)
}

func TestEstimateRankUpgrades_DoesNotMutateSettings(t *testing.T) {
	// Arrange
	e := newTestEngine(t, 0)
	settings := ironSettings(100)
	settings.Inventory = planner.Inventory{"iron": 40}

	// Act
	first := e.EstimateRankUpgrades(settings, grinderGoal())
	second := e.EstimateRankUpgrades(settings, grinderGoal())

	// Assert
	assert.Equal(t, planner.Inventory{"iron": 40}, settings.Inventory)
	assert.Equal(t, planner.CampaignProgress{"Indomitus": 1}, settings.CampaignsProgress)
	assert.Equal(t, planner.OrderMode(""), settings.Order)
	assert.NotEqual(t, first.PlanID, second.PlanID)
	assert.Equal(t, first.Raids, second.Raids)
	assert.Equal(t, first.Materials, second.Materials)
	assert.Equal(t, 600, first.TotalEnergy)
}

func TestSummarize(t *testing.T) {
	// Arrange
	e := newTestEngine(t, 0)
	est := e.EstimateRankUpgrades(ironSettings(100), grinderGoal())

	// Act
	summary := engine.Summarize(est)
	text := summary.Text()

	// Assert
	assert.Equal(t, 1000, summary.TotalEnergy)
	assert.Equal(t, 34, summary.TotalDays)
	assert.Equal(t, 100, summary.TotalBattles)
	require.Len(t, summary.Materials, 1)
	assert.Equal(t, planner.MaterialBreakdown{MaterialID: "iron", Label: "Iron Ingot", CountLeft: 100, Energy: 1000, Days: 34}, summary.Materials[0])
	assert.Contains(t, text, "Total energy: 1,000")
	assert.Contains(t, text, "Iron Ingot")
	assert.NotContains(t, text, "Warning")
}

func TestSummarize_Nil(t *testing.T) {
	assert.Equal(t, planner.Summary{}, engine.Summarize(nil))
}

func TestSuggestMaterials(t *testing.T) {
	e := newTestEngine(t, 0)

	assert.Equal(t, []string{"iron"}, e.SuggestMaterials("irn", 5))
	assert.Equal(t, []string{"blueprint"}, e.SuggestMaterials("Blue Prnt", 5))
	assert.Empty(t, e.SuggestMaterials("zz", 5))
	assert.Empty(t, e.SuggestMaterials("unobtainium", 5))
}
