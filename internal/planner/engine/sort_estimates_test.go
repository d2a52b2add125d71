package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rsned/raid-planner/pkg/planner"
)

func TestSortEstimates(t *testing.T) {
	base := planner.EstimatedMaterial{
		MaterialID:    "m",
		Rarity:        planner.RarityUncommon,
		Count:         10,
		TotalEnergy:   100,
		DaysOfBattles: 5,
		Priority:      2,
	}
	with := func(id string, edit func(m *planner.EstimatedMaterial)) planner.EstimatedMaterial {
		m := base
		m.MaterialID = id
		edit(&m)
		return m
	}
	same := func(*planner.EstimatedMaterial) {}

	tests := []struct {
		name   string
		order  planner.OrderMode
		first  planner.EstimatedMaterial
		second planner.EstimatedMaterial
	}{
		{
			name:   "more days first",
			order:  planner.OrderDefault,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.DaysOfBattles = 6; m.TotalEnergy = 1 }),
			second: with("a", same),
		},
		{
			name:   "equal days, more energy first",
			order:  planner.OrderDefault,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.TotalEnergy = 101; m.Rarity = planner.RarityCommon }),
			second: with("a", same),
		},
		{
			name:   "equal energy, higher rarity first",
			order:  planner.OrderDefault,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.Rarity = planner.RarityRare; m.Count = 1 }),
			second: with("a", same),
		},
		{
			name:   "equal rarity, larger count first",
			order:  planner.OrderDefault,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.Count = 11 }),
			second: with("a", same),
		},
		{
			name:   "full tie falls back to id",
			order:  planner.OrderDefault,
			first:  with("a", same),
			second: with("z", same),
		},
		{
			name:   "default mode ignores priority",
			order:  planner.OrderDefault,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.DaysOfBattles = 6; m.Priority = 9 }),
			second: with("a", func(m *planner.EstimatedMaterial) { m.Priority = 1 }),
		},
		{
			name:   "priority mode puts lower priority first",
			order:  planner.OrderPriority,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.Priority = 1; m.DaysOfBattles = 1 }),
			second: with("a", same),
		},
		{
			name:   "priority mode tie uses days",
			order:  planner.OrderPriority,
			first:  with("z", func(m *planner.EstimatedMaterial) { m.DaysOfBattles = 6 }),
			second: with("a", same),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			estimates := []planner.EstimatedMaterial{tt.second, tt.first}

			// Act
			sortEstimates(estimates, tt.order)

			// Assert
			assert.Equal(t, []string{tt.first.MaterialID, tt.second.MaterialID},
				[]string{estimates[0].MaterialID, estimates[1].MaterialID})
		})
	}
}
