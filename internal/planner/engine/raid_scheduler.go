package engine

import (
	"slices"
	"strings"

	"github.com/rsned/raid-planner/pkg/planner"
)

// pendingMaterial is a material still waiting for energy in the schedule.
type pendingMaterial struct {
	material planner.EstimatedMaterial
	energy   int
	minCost  int
	key      string
}

// GenerateDailyRaids spreads the farming energy of each material over days of
// the player's daily energy budget.
//
// Materials are served in the order given. On day 1 the completed raids are
// kept as-is (negative counts clamped to zero), their energy comes off the
// budget and their attempts count against each location's daily battle cap.
func (e *Engine) GenerateDailyRaids(
	settings planner.EstimateSettings,
	materials []planner.EstimatedMaterial,
) planner.RaidSchedule {
	var schedule planner.RaidSchedule

	queue := make([]*pendingMaterial, 0, len(materials))
	energyLeftToFarm := 0
	for _, m := range materials {
		if m.TotalEnergy <= 0 || len(m.Locations) == 0 {
			continue
		}
		minCost := m.Locations[0].EnergyCost
		ids := make([]string, 0, len(m.Locations))
		for _, loc := range m.Locations {
			minCost = min(minCost, loc.EnergyCost)
			ids = append(ids, loc.ID)
		}
		queue = append(queue, &pendingMaterial{
			material: m,
			energy:   m.TotalEnergy,
			minCost:  minCost,
			key:      raidKey(m.MaterialID, ids),
		})
		energyLeftToFarm += m.TotalEnergy
	}

	iterations := 0
	for energyLeftToFarm > 0 && len(queue) > 0 {
		if iterations >= e.iterationLimit {
			e.logger.Error("raid schedule hit iteration limit",
				"days", len(schedule.Days),
				"energy_left_to_farm", energyLeftToFarm,
				"materials_left", len(queue),
				"daily_energy", settings.DailyEnergy,
				"limit", e.iterationLimit,
			)
			schedule.Truncated = &planner.Truncation{
				Stage:      planner.StageSchedule,
				MaterialID: queue[0].material.MaterialID,
				Iterations: iterations,
			}
			break
		}
		iterations++

		day := planner.DailyRaid{EnergyLeft: settings.DailyEnergy}
		used := make(map[string]int)
		planned := make(map[string]bool)

		if len(schedule.Days) == 0 && len(settings.CompletedLocations) > 0 {
			day.EnergyLeft = max(0, day.EnergyLeft-settings.CompletedEnergy())
			for _, raid := range settings.CompletedLocations {
				raid.Locations = slices.Clone(raid.Locations)
				ids := make([]string, 0, len(raid.Locations))
				for i := range raid.Locations {
					loc := &raid.Locations[i]
					loc.RaidsCount = max(0, loc.RaidsCount)
					loc.EnergySpent = max(0, loc.EnergySpent)
					loc.FarmedItems = max(0, loc.FarmedItems)
					used[loc.LocationID] += loc.RaidsCount
					ids = append(ids, loc.LocationID)
				}
				day.Raids = append(day.Raids, raid)
				planned[raidKey(raid.MaterialID, ids)] = true
			}
		}

		for _, p := range queue {
			if planned[p.key] {
				continue
			}
			if p.energy < p.minCost {
				energyLeftToFarm -= p.energy
				p.energy = 0
				continue
			}

			raid, spent := e.allocate(p, &day, used)
			if spent == 0 {
				continue
			}
			p.energy -= spent
			energyLeftToFarm -= spent
			planned[p.key] = true
			day.Raids = append(day.Raids, raid)
		}

		queue = slices.DeleteFunc(queue, func(p *pendingMaterial) bool {
			if p.energy > 0 && p.energy < p.minCost {
				energyLeftToFarm -= p.energy
				p.energy = 0
			}
			return p.energy <= 0
		})

		if len(day.Raids) > 0 {
			day.Day = len(schedule.Days) + 1
			schedule.Days = append(schedule.Days, day)
		}
	}

	return schedule
}

// allocate walks a material's ranked locations and spends as much of the day's
// energy on it as its need and each location's daily cap allow.
func (e *Engine) allocate(p *pendingMaterial, day *planner.DailyRaid, used map[string]int) (planner.MaterialRaid, int) {
	m := p.material
	raid := planner.MaterialRaid{
		MaterialID:    m.MaterialID,
		MaterialLabel: m.Label,
		Rarity:        m.Rarity,
		TotalCount:    m.CountLeft,
		Characters:    m.Characters,
	}

	pending := p.energy
	spentTotal := 0
	for _, loc := range m.Locations {
		cost := loc.EnergyCost
		if pending < cost || day.EnergyLeft < cost {
			continue
		}
		attemptsLeft := loc.DailyBattleCount - used[loc.ID]
		if attemptsLeft <= 0 {
			continue
		}

		quota := attemptsLeft * cost
		var attempts int
		switch {
		case pending >= quota && day.EnergyLeft >= quota:
			attempts = attemptsLeft
		case day.EnergyLeft >= pending:
			attempts = pending / cost
		default:
			attempts = day.EnergyLeft / cost
		}
		attempts = min(attempts, attemptsLeft, pending/cost, day.EnergyLeft/cost)
		if attempts <= 0 {
			continue
		}

		spent := attempts * cost
		used[loc.ID] += attempts
		day.EnergyLeft -= spent
		pending -= spent
		spentTotal += spent

		raid.Locations = append(raid.Locations, planner.RaidLocation{
			LocationID:    loc.ID,
			Campaign:      loc.Campaign,
			NodeNumber:    loc.NodeNumber,
			EnergyPerItem: loc.EnergyPerItem,
			RaidsCount:    attempts,
			EnergySpent:   spent,
			FarmedItems:   float64(spent) / loc.EnergyPerItem,
		})
	}

	return raid, spentTotal
}

// raidKey identifies a material raid by material and its set of locations.
func raidKey(materialID string, locationIDs []string) string {
	ids := slices.Clone(locationIDs)
	slices.Sort(ids)
	return materialID + "|" + strings.Join(ids, ",")
}
