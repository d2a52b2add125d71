package engine

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/rsned/raid-planner/pkg/planner"
)

// buildLocations composes battles with their campaign config into farmable locations.
// Battles with incomplete static data are left out of the catalog.
func buildLocations(data *planner.StaticData, materials map[string]planner.Material, logger *slog.Logger) map[string]planner.Location {
	locations := make(map[string]planner.Location, len(data.Battles))

	for _, b := range data.Battles {
		id := planner.LocationID(b.Campaign, b.NodeNumber)

		campaign, ok := data.Campaigns[b.Campaign]
		if !ok {
			logger.Warn("battle references unknown campaign", "location", id, "campaign", b.Campaign)
			continue
		}
		cfg, ok := data.Configs[campaign.Type]
		if !ok {
			logger.Warn("campaign type has no config", "location", id, "type", campaign.Type)
			continue
		}
		reward, ok := materials[b.Reward]
		if !ok {
			logger.Warn("battle reward has no material entry", "location", id, "reward", b.Reward)
			continue
		}
		rate, ok := cfg.DropRate[reward.Rarity]
		if !ok || rate <= 0 {
			logger.Warn("no drop rate for reward rarity", "location", id, "rarity", reward.Rarity.String())
			continue
		}
		if cfg.EnergyCost <= 0 || cfg.DailyBattleCount <= 0 {
			logger.Warn("campaign config has no usable battles", "location", id, "type", campaign.Type)
			continue
		}

		locations[id] = planner.Location{
			ID:               id,
			Campaign:         b.Campaign,
			CampaignType:     campaign.Type,
			NodeNumber:       b.NodeNumber,
			EnergyCost:       cfg.EnergyCost,
			DailyBattleCount: cfg.DailyBattleCount,
			DropRate:         rate,
			EnergyPerItem:    float64(cfg.EnergyCost) / rate,
			ExpectedGold:     cfg.ExpectedGold,
			Reward:           b.Reward,
			RewardRarity:     reward.Rarity,
		}
	}

	return locations
}

// Locations returns a copy of the location catalog keyed by location ID.
func (e *Engine) Locations() map[string]planner.Location {
	out := make(map[string]planner.Location, len(e.locations))
	for id, loc := range e.locations {
		out[id] = loc
	}
	return out
}

// MaterialLocations returns every catalog location rewarding the material,
// ordered by campaign and node number.
func (e *Engine) MaterialLocations(materialID string) []planner.Location {
	m, ok := e.materials[materialID]
	if !ok {
		return nil
	}
	locs := make([]planner.Location, 0, len(m.Locations))
	for _, id := range m.Locations {
		if loc, ok := e.locations[id]; ok {
			locs = append(locs, loc)
		}
	}
	return locs
}

func sortByNode(locs []planner.Location) {
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Campaign != locs[j].Campaign {
			return locs[i].Campaign < locs[j].Campaign
		}
		return locs[i].NodeNumber < locs[j].NodeNumber
	})
}

// joinLocationIDs renders locations as a comma separated list for display.
func joinLocationIDs(locs []planner.Location) string {
	ids := make([]string, 0, len(locs))
	for _, loc := range locs {
		ids = append(ids, loc.ID)
	}
	return strings.Join(ids, ", ")
}
