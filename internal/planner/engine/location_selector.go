package engine

import (
	"sort"

	"github.com/rsned/raid-planner/pkg/planner"
)

// SelectBestLocations filters candidates to the unlocked locations matching the
// preference and ranks them by energy per item, cheapest first.
//
// When the preference removes every unlocked location, the first unlocked
// candidate is kept so a player with any access always gets a location.
func SelectBestLocations(
	pref planner.FarmPreference,
	progress planner.CampaignProgress,
	candidates []planner.Location,
) []planner.Location {
	var unlocked []planner.Location
	for _, loc := range candidates {
		if progress.Unlocked(loc) {
			unlocked = append(unlocked, loc)
		}
	}
	if len(unlocked) == 0 {
		return nil
	}

	minEnergy, maxEnergy := unlocked[0].EnergyPerItem, unlocked[0].EnergyPerItem
	for _, loc := range unlocked[1:] {
		minEnergy = min(minEnergy, loc.EnergyPerItem)
		maxEnergy = max(maxEnergy, loc.EnergyPerItem)
	}

	var selected []planner.Location
	for _, loc := range unlocked {
		keep := true
		switch pref {
		case planner.PreferenceMostEfficient:
			keep = loc.EnergyPerItem == minEnergy
		case planner.PreferenceLeastEfficient:
			keep = loc.EnergyPerItem == maxEnergy
		case planner.PreferenceMoreEfficient:
			keep = loc.EnergyPerItem > minEnergy && loc.EnergyPerItem < maxEnergy
		}
		if keep {
			selected = append(selected, loc)
		}
	}

	if len(selected) == 0 {
		selected = []planner.Location{unlocked[0]}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.EnergyPerItem != b.EnergyPerItem {
			return a.EnergyPerItem < b.EnergyPerItem
		}
		if a.ExpectedGold != b.ExpectedGold {
			return a.ExpectedGold > b.ExpectedGold
		}
		return a.ID < b.ID
	})

	return selected
}

// MissingLocations returns the candidates the player has not unlocked yet.
func MissingLocations(progress planner.CampaignProgress, candidates []planner.Location) []planner.Location {
	var missing []planner.Location
	for _, loc := range candidates {
		if !progress.Unlocked(loc) {
			missing = append(missing, loc)
		}
	}
	return missing
}
