package engine_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsned/raid-planner/internal/planner/engine"
	"github.com/rsned/raid-planner/pkg/planner"
)

// testData builds a small dataset:
//
//	iron      Common base     Indomitus 1
//	gear      Uncommon base   Fall 3, Indomitus 2, Indomitus 4
//	widget    = 2 iron + 1 gear
//	blueprint = 2 widget + 1 iron   (5 iron, 2 gear)
//	crate     = 100 iron
func testData() *planner.StaticData {
	return &planner.StaticData{
		Materials: map[string]planner.Material{
			"iron":      {ID: "iron", Label: "Iron Ingot", Rarity: planner.RarityCommon, Stat: planner.StatArmour},
			"gear":      {ID: "gear", Label: "Cog Gear", Rarity: planner.RarityUncommon, Stat: planner.StatDamage},
			"widget":    {ID: "widget", Label: "Widget", Rarity: planner.RarityRare, Craftable: true, Recipe: []planner.RecipeItem{{MaterialID: "iron", Count: 2}, {MaterialID: "gear", Count: 1}}},
			"blueprint": {ID: "blueprint", Label: "Blueprint", Rarity: planner.RarityEpic, Craftable: true, Recipe: []planner.RecipeItem{{MaterialID: "widget", Count: 2}, {MaterialID: "iron", Count: 1}}},
			"crate":     {ID: "crate", Label: "Iron Crate", Rarity: planner.RarityCommon, Craftable: true, Recipe: []planner.RecipeItem{{MaterialID: "iron", Count: 100}}},
			"loopA":     {ID: "loopA", Label: "Loop A", Craftable: true, Recipe: []planner.RecipeItem{{MaterialID: "loopB", Count: 1}}},
			"loopB":     {ID: "loopB", Label: "Loop B", Craftable: true, Recipe: []planner.RecipeItem{{MaterialID: "loopA", Count: 1}}},
			"hollow":    {ID: "hollow", Label: "Hollow", Craftable: true},
		},
		Configs: map[string]planner.CampaignConfig{
			"Normal": {
				Type: "Normal", EnergyCost: 10, DailyBattleCount: 3, ExpectedGold: 100,
				DropRate: map[planner.Rarity]float64{
					planner.RarityCommon:   1.0,
					planner.RarityUncommon: 0.5,
					planner.RarityRare:     0.25,
				},
			},
			"Elite": {
				Type: "Elite", EnergyCost: 12, DailyBattleCount: 2, ExpectedGold: 250,
				DropRate: map[planner.Rarity]float64{
					planner.RarityUncommon: 0.8,
				},
			},
		},
		Campaigns: map[string]planner.Campaign{
			"Indomitus": {Name: "Indomitus", Type: "Normal"},
			"Fall":      {Name: "Fall", Type: "Elite"},
		},
		Battles: []planner.Battle{
			{Campaign: "Indomitus", NodeNumber: 1, Reward: "iron"},
			{Campaign: "Indomitus", NodeNumber: 4, Reward: "gear"},
			{Campaign: "Indomitus", NodeNumber: 2, Reward: "gear"},
			{Campaign: "Fall", NodeNumber: 3, Reward: "gear"},
			{Campaign: "Ghost", NodeNumber: 1, Reward: "iron"}, // unknown campaign
			{Campaign: "Fall", NodeNumber: 5, Reward: "iron"},  // no Common drop rate in Elite
		},
		Characters: map[string]planner.CharacterRanks{
			"alpha": {CharacterID: "alpha", Name: "Alpha", Upgrades: map[planner.Rank][]string{
				planner.RankStone1: {"widget", "iron"},
				planner.RankStone2: {"blueprint"},
			}},
			"beta": {CharacterID: "beta", Name: "Beta", Upgrades: map[planner.Rank][]string{
				planner.RankStone1: {"gear", "gear"},
			}},
			"grinder": {CharacterID: "grinder", Name: "Grinder", Upgrades: map[planner.Rank][]string{
				planner.RankStone1: {"crate"},
			}},
		},
	}
}

func newTestEngine(t *testing.T, limit int) *engine.Engine {
	t.Helper()

	e, err := engine.New(testData(), engine.Options{
		Logger:         slog.New(slog.DiscardHandler),
		IterationLimit: limit,
	})
	require.NoError(t, err)
	return e
}

// grinderGoal needs exactly 100 iron.
func grinderGoal() []planner.CharacterRankRange {
	return []planner.CharacterRankRange{
		{CharacterID: "grinder", RankStart: planner.RankStone1, RankEnd: planner.RankStone2},
	}
}

func ironSettings(dailyEnergy int) planner.EstimateSettings {
	return planner.EstimateSettings{
		DailyEnergy:       dailyEnergy,
		CampaignsProgress: planner.CampaignProgress{"Indomitus": 1},
	}
}

func findMaterial(t *testing.T, materials []planner.EstimatedMaterial, id string) planner.EstimatedMaterial {
	t.Helper()

	for _, m := range materials {
		if m.MaterialID == id {
			return m
		}
	}
	require.Failf(t, "material not found", "material %q", id)
	return planner.EstimatedMaterial{}
}
