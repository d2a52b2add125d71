package engine

import (
	"maps"
	"math"
	"sort"

	"github.com/rsned/raid-planner/pkg/planner"
)

// epsilon absorbs float error when comparing farmed item counts.
const epsilon = 1e-9

// GetUpgrades resolves each character goal into the base materials it needs.
//
// Goals are processed in ascending Priority (zero last, input order kept on ties)
// and numbered 1..n in that order. For the starting rank the character's applied
// upgrades are skipped.
func (e *Engine) GetUpgrades(ranges []planner.CharacterRankRange) []planner.CharacterUpgrades {
	ordered := make([]planner.CharacterRankRange, len(ranges))
	copy(ordered, ranges)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].Priority, ordered[j].Priority
		return pi != 0 && (pj == 0 || pi < pj)
	})

	result := make([]planner.CharacterUpgrades, 0, len(ordered))
	for idx, r := range ordered {
		priority := idx + 1
		cu := planner.CharacterUpgrades{
			CharacterID: r.CharacterID,
			Priority:    priority,
			RankStart:   r.RankStart,
			RankEnd:     r.RankEnd,
		}

		ranks, ok := e.characters[r.CharacterID]
		if !ok {
			e.logger.Warn("unknown character in goal", "character", r.CharacterID)
			result = append(result, cu)
			continue
		}

		applied := make(map[string]int, len(r.AppliedUpgrades))
		for _, id := range r.AppliedUpgrades {
			applied[id]++
		}

		acc := newDemandAccumulator()
		for rank := r.RankStart; rank < r.RankEnd; rank++ {
			var kept []string
			for _, upgradeID := range ranks.Upgrades[rank] {
				if rank == r.RankStart && applied[upgradeID] > 0 {
					applied[upgradeID]--
					continue
				}
				kept = append(kept, upgradeID)
				for _, entry := range e.ResolveRecipe(upgradeID).Entries {
					acc.add(entry.MaterialID, entry.Count, []string{r.CharacterID}, priority)
				}
			}
			if len(kept) > 0 {
				cu.RankUpgrades = append(cu.RankUpgrades, planner.RankUpgrades{Rank: rank, Upgrades: kept})
			}
		}

		cu.Materials = acc.list(e.materials)
		result = append(result, cu)
	}

	return result
}

// GetAllMaterials turns resolved goals into per-material farming estimates.
//
// Inventory is consumed once per material across the whole run: crafted
// equivalents of held craftable materials first, then the base material itself.
func (e *Engine) GetAllMaterials(
	settings planner.EstimateSettings,
	upgrades []planner.CharacterUpgrades,
) ([]planner.EstimatedMaterial, []planner.Truncation) {
	stock := e.NewStock(settings.Inventory)

	var groups [][]planner.MaterialDemand
	if settings.Order == planner.OrderPriority {
		ordered := make([]planner.CharacterUpgrades, len(upgrades))
		copy(ordered, upgrades)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })
		for _, cu := range ordered {
			groups = append(groups, cu.Materials)
		}
	} else {
		acc := newDemandAccumulator()
		for _, cu := range upgrades {
			for _, d := range cu.Materials {
				acc.add(d.MaterialID, d.Count, d.Characters, d.Priority)
			}
		}
		groups = append(groups, acc.list(e.materials))
	}

	var estimates []planner.EstimatedMaterial
	var truncations []planner.Truncation
	for _, group := range groups {
		for _, demand := range group {
			var est planner.EstimatedMaterial
			est, stock = e.estimateMaterial(settings, demand, stock)
			if est.Truncated {
				truncations = append(truncations, planner.Truncation{
					Stage:      planner.StageEstimate,
					MaterialID: est.MaterialID,
					Iterations: e.iterationLimit,
				})
			}
			estimates = append(estimates, est)
		}
	}

	sortEstimates(estimates, settings.Order)
	return estimates, truncations
}

// estimateMaterial offsets a demand against stock and estimates its farming cost.
func (e *Engine) estimateMaterial(
	settings planner.EstimateSettings,
	demand planner.MaterialDemand,
	stock Stock,
) (planner.EstimatedMaterial, Stock) {
	crafted, owned, rest := stock.Take(demand.MaterialID, demand.Count)

	est := planner.EstimatedMaterial{
		MaterialID:   demand.MaterialID,
		Label:        demand.Label,
		Rarity:       demand.Rarity,
		Stat:         planner.StatUnknown,
		Count:        demand.Count,
		CraftedCount: crafted,
		OwnedCount:   owned,
		CountLeft:    max(0, demand.Count-crafted-owned),
		Characters:   demand.Characters,
		Priority:     demand.Priority,
	}
	if m, ok := e.materials[demand.MaterialID]; ok {
		est.Stat = m.Stat
	}

	candidates := e.MaterialLocations(demand.MaterialID)
	est.Locations = SelectBestLocations(settings.Preference, settings.CampaignsProgress, candidates)
	est.LocationsString = joinLocationIDs(est.Locations)
	est.MissingLocationsString = joinLocationIDs(MissingLocations(settings.CampaignsProgress, candidates))

	for _, loc := range est.Locations {
		est.DailyEnergy += loc.DailyEnergy()
		est.DailyBattles += loc.DailyBattleCount
	}

	est.TotalEnergy, est.TotalBattles, est.DaysOfBattles, est.Truncated = e.farmingDays(est.CountLeft, est.Locations)
	if est.Truncated {
		e.logger.Error("farming estimate hit iteration limit",
			"material", est.MaterialID,
			"count_left", est.CountLeft,
			"locations", est.LocationsString,
			"limit", e.iterationLimit,
		)
	}
	if est.CountLeft > 0 && len(est.Locations) == 0 {
		e.logger.Debug("material has no unlocked location",
			"material", est.MaterialID,
			"missing", est.MissingLocationsString,
		)
	}

	return est, rest
}

// farmingDays simulates farming count items at the given locations, each capped
// at its daily battle count, and reports the energy, battles and days it takes.
func (e *Engine) farmingDays(count int, locations []planner.Location) (energy, battles, days int, truncated bool) {
	if count <= 0 || len(locations) == 0 {
		return 0, 0, 0, false
	}

	itemsLeft := float64(count)
	for itemsLeft > epsilon {
		if days >= e.iterationLimit {
			return energy, battles, days, true
		}
		days++

		for _, loc := range locations {
			if itemsLeft <= epsilon {
				break
			}
			needed := int(math.Ceil(itemsLeft*loc.EnergyPerItem/float64(loc.EnergyCost) - epsilon))
			attempts := min(needed, loc.DailyBattleCount)
			if attempts <= 0 {
				continue
			}
			spent := attempts * loc.EnergyCost
			energy += spent
			battles += attempts
			itemsLeft -= float64(spent) / loc.EnergyPerItem
		}
	}

	return energy, battles, days, false
}

// sortEstimates orders materials for the scheduler: longest to farm first, or
// by goal priority first in priority mode.
func sortEstimates(estimates []planner.EstimatedMaterial, order planner.OrderMode) {
	sort.SliceStable(estimates, func(i, j int) bool {
		a, b := estimates[i], estimates[j]
		if order == planner.OrderPriority && a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.DaysOfBattles != b.DaysOfBattles {
			return a.DaysOfBattles > b.DaysOfBattles
		}
		if a.TotalEnergy != b.TotalEnergy {
			return a.TotalEnergy > b.TotalEnergy
		}
		if a.Rarity != b.Rarity {
			return a.Rarity > b.Rarity
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.MaterialID < b.MaterialID
	})
}

// ============================================
// STOCK
// ============================================

// Stock is the inventory still available to offset demand during one planning run.
// It is a value: Take returns the remaining stock and never mutates the receiver.
type Stock struct {
	owned   planner.Inventory
	crafted planner.Inventory
}

// NewStock builds a stock from an inventory snapshot. Held craftable materials
// are also credited as their base-material equivalents.
func (e *Engine) NewStock(inv planner.Inventory) Stock {
	s := Stock{
		owned:   make(planner.Inventory, len(inv)),
		crafted: make(planner.Inventory),
	}
	for id, qty := range inv {
		if qty <= 0 {
			continue
		}
		s.owned[id] = qty

		m, ok := e.materials[id]
		if !ok || !m.Craftable {
			continue
		}
		for _, entry := range e.ResolveRecipe(id).Entries {
			s.crafted[entry.MaterialID] += entry.Count * qty
		}
	}
	return s
}

// Owned returns the directly owned quantity of a material.
func (s Stock) Owned(id string) int {
	return s.owned[id]
}

// Crafted returns the quantity of a base material held inside craftable materials.
func (s Stock) Crafted(id string) int {
	return s.crafted[id]
}

// Take consumes up to count of a material, crafted equivalents first.
func (s Stock) Take(id string, count int) (craftedUsed, ownedUsed int, rest Stock) {
	if count <= 0 {
		return 0, 0, s
	}

	craftedUsed = min(count, s.crafted[id])
	ownedUsed = min(count-craftedUsed, s.owned[id])

	rest = s
	if craftedUsed > 0 {
		rest.crafted = maps.Clone(s.crafted)
		rest.crafted[id] -= craftedUsed
	}
	if ownedUsed > 0 {
		rest.owned = maps.Clone(s.owned)
		rest.owned[id] -= ownedUsed
	}
	return craftedUsed, ownedUsed, rest
}

// ============================================
// DEMAND ACCUMULATOR
// ============================================

// demandAccumulator merges demand entries by material ID in a single pass.
type demandAccumulator struct {
	byID       map[string]*planner.MaterialDemand
	characters map[string]map[string]bool
}

func newDemandAccumulator() *demandAccumulator {
	return &demandAccumulator{
		byID:       make(map[string]*planner.MaterialDemand),
		characters: make(map[string]map[string]bool),
	}
}

// add sums count into the material, unions characters and keeps the lowest priority.
func (a *demandAccumulator) add(id string, count int, characters []string, priority int) {
	d, ok := a.byID[id]
	if !ok {
		d = &planner.MaterialDemand{MaterialID: id, Priority: priority}
		a.byID[id] = d
		a.characters[id] = make(map[string]bool)
	}
	d.Count += count
	if priority < d.Priority {
		d.Priority = priority
	}
	for _, c := range characters {
		a.characters[id][c] = true
	}
}

// list returns the merged demand sorted by material ID, labelled from static data.
func (a *demandAccumulator) list(materials map[string]planner.Material) []planner.MaterialDemand {
	out := make([]planner.MaterialDemand, 0, len(a.byID))
	for id, d := range a.byID {
		demand := *d
		demand.Label = id
		if m, ok := materials[id]; ok {
			demand.Label = m.Label
			demand.Rarity = m.Rarity
		}
		for c := range a.characters[id] {
			demand.Characters = append(demand.Characters, c)
		}
		sort.Strings(demand.Characters)
		out = append(out, demand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out
}
