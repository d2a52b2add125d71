package engine

import (
	"maps"

	"github.com/google/uuid"

	"github.com/rsned/raid-planner/pkg/planner"
)

// EstimateRankUpgrades runs a full planning pass: goals are resolved to
// material demand, each material is estimated, and the result is scheduled
// into days.
//
// The caller's settings are never modified. A result with Truncations is
// partial.
func (e *Engine) EstimateRankUpgrades(
	settings planner.EstimateSettings,
	ranges []planner.CharacterRankRange,
) *planner.EstimatedRanks {
	settings = normalizeSettings(settings)
	planID := uuid.NewString()
	logger := e.logger.With("plan_id", planID)

	logger.Info("estimating rank upgrades",
		"goals", len(ranges),
		"daily_energy", settings.DailyEnergy,
		"preference", string(settings.Preference),
		"order", string(settings.Order),
	)

	upgrades := e.GetUpgrades(ranges)
	materials, truncations := e.GetAllMaterials(settings, upgrades)
	schedule := e.GenerateDailyRaids(settings, materials)
	if schedule.Truncated != nil {
		truncations = append(truncations, *schedule.Truncated)
	}

	result := &planner.EstimatedRanks{
		PlanID:      planID,
		Raids:       schedule.Days,
		Upgrades:    upgrades,
		Materials:   materials,
		TotalEnergy: totalEnergy(settings, schedule.Days),
		TotalDays:   len(schedule.Days),
		Truncations: truncations,
	}

	if result.Partial() {
		logger.Warn("estimate is partial", "truncations", len(truncations))
	}
	logger.Info("estimate complete",
		"materials", len(materials),
		"days", result.TotalDays,
		"energy", result.TotalEnergy,
	)

	return result
}

// normalizeSettings clones the settings maps and fills defaults.
func normalizeSettings(s planner.EstimateSettings) planner.EstimateSettings {
	s.CampaignsProgress = maps.Clone(s.CampaignsProgress)
	s.Inventory = s.Inventory.Clone()
	if s.Order == "" {
		s.Order = planner.OrderDefault
	}
	return s
}

// totalEnergy is the energy the schedule spends beyond the already completed battles.
func totalEnergy(settings planner.EstimateSettings, days []planner.DailyRaid) int {
	if len(days) == 0 {
		return 0
	}
	spent := 0
	for _, d := range days {
		spent += settings.DailyEnergy - d.EnergyLeft
	}
	spent -= min(settings.CompletedEnergy(), settings.DailyEnergy)
	return max(0, spent)
}

// Summarize reduces an estimate to totals and a per-material breakdown.
func Summarize(est *planner.EstimatedRanks) planner.Summary {
	if est == nil {
		return planner.Summary{}
	}

	s := planner.Summary{
		TotalEnergy: est.TotalEnergy,
		TotalDays:   est.TotalDays,
		Materials:   make([]planner.MaterialBreakdown, 0, len(est.Materials)),
		Partial:     est.Partial(),
	}
	for _, m := range est.Materials {
		s.TotalBattles += m.TotalBattles
		s.Materials = append(s.Materials, planner.MaterialBreakdown{
			MaterialID: m.MaterialID,
			Label:      m.Label,
			CountLeft:  m.CountLeft,
			Energy:     m.TotalEnergy,
			Days:       m.DaysOfBattles,
			Missing:    m.MissingLocationsString,
		})
	}
	return s
}
