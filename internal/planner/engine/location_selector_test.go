package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/raid-planner/internal/planner/engine"
	"github.com/rsned/raid-planner/pkg/planner"
)

func loc(campaign string, node int, energyPerItem float64, gold int) planner.Location {
	return planner.Location{
		ID:               planner.LocationID(campaign, node),
		Campaign:         campaign,
		NodeNumber:       node,
		EnergyCost:       10,
		DailyBattleCount: 3,
		EnergyPerItem:    energyPerItem,
		ExpectedGold:     gold,
	}
}

func locationIDs(locs []planner.Location) []string {
	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestSelectBestLocations_Preferences(t *testing.T) {
	candidates := []planner.Location{
		loc("Mirror", 1, 30, 100),
		loc("Indomitus", 5, 20, 100),
		loc("Indomitus", 2, 10, 100),
		loc("Indomitus", 9, 20, 100), // locked
	}
	progress := planner.CampaignProgress{"Indomitus": 5, "Mirror": 3}

	tests := []struct {
		name string
		pref planner.FarmPreference
		want []string
	}{
		{name: "none ranks all unlocked", pref: planner.PreferenceNone, want: []string{"Indomitus 2", "Indomitus 5", "Mirror 1"}},
		{name: "most efficient", pref: planner.PreferenceMostEfficient, want: []string{"Indomitus 2"}},
		{name: "more efficient", pref: planner.PreferenceMoreEfficient, want: []string{"Indomitus 5"}},
		{name: "least efficient", pref: planner.PreferenceLeastEfficient, want: []string{"Mirror 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.SelectBestLocations(tt.pref, progress, candidates)
			assert.Equal(t, tt.want, locationIDs(got))
		})
	}
}

func TestSelectBestLocations_NeverReturnsLockedLocations(t *testing.T) {
	candidates := []planner.Location{loc("Indomitus", 2, 10, 100), loc("Indomitus", 9, 5, 100)}
	progress := planner.CampaignProgress{"Indomitus": 4}

	for _, pref := range planner.ValidPreferences() {
		got := engine.SelectBestLocations(pref, progress, candidates)
		for _, l := range got {
			assert.True(t, progress.Unlocked(l), "preference %q selected locked %s", pref, l.ID)
		}
	}
}

func TestSelectBestLocations_FallsBackToFirstUnlocked(t *testing.T) {
	// Arrange: with only two tiers there is nothing strictly in between.
	candidates := []planner.Location{loc("Mirror", 1, 30, 100), loc("Indomitus", 2, 10, 100)}
	progress := planner.CampaignProgress{"Indomitus": 5, "Mirror": 3}

	// Act
	got := engine.SelectBestLocations(planner.PreferenceMoreEfficient, progress, candidates)

	// Assert
	require.Len(t, got, 1)
	assert.Equal(t, "Mirror 1", got[0].ID)
}

func TestSelectBestLocations_TiesPreferMoreGold(t *testing.T) {
	candidates := []planner.Location{loc("Indomitus", 2, 10, 100), loc("Fall", 3, 10, 250)}
	progress := planner.CampaignProgress{"Indomitus": 5, "Fall": 5}

	got := engine.SelectBestLocations(planner.PreferenceNone, progress, candidates)

	assert.Equal(t, []string{"Fall 3", "Indomitus 2"}, locationIDs(got))
}

func TestSelectBestLocations_NothingUnlocked(t *testing.T) {
	candidates := []planner.Location{loc("Indomitus", 2, 10, 100)}

	got := engine.SelectBestLocations(planner.PreferenceMostEfficient, planner.CampaignProgress{}, candidates)

	assert.Empty(t, got)
	assert.Equal(t, []string{"Indomitus 2"}, locationIDs(engine.MissingLocations(planner.CampaignProgress{}, candidates)))
}

func TestLocationCatalog_SkipsIncompleteBattles(t *testing.T) {
	// Arrange
	e := newTestEngine(t, 0)

	// Act
	locations := e.Locations()
	gear, ok := e.Material("gear")

	// Assert
	require.True(t, ok)
	assert.Len(t, locations, 4)
	assert.NotContains(t, locations, "Ghost 1")
	assert.NotContains(t, locations, "Fall 5")
	assert.Equal(t, []string{"Fall 3", "Indomitus 2", "Indomitus 4"}, gear.Locations)
	assert.InDelta(t, 15.0, locations["Fall 3"].EnergyPerItem, 1e-9)
	assert.InDelta(t, 20.0, locations["Indomitus 2"].EnergyPerItem, 1e-9)
}
