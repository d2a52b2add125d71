// Package planner contains the core types for the raid planning server.
package planner

import (
	"fmt"
	"strings"
)

// ============================================
// ENUMS
// ============================================

// Rarity is the ordinal rarity tier of a material.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

var rarityNames = []string{"Common", "Uncommon", "Rare", "Epic", "Legendary", "Mythic"}

// String returns the display name of the rarity.
func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity parses a rarity name (case-insensitive).
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Stat is the stat category a material upgrades.
type Stat string

const (
	StatHealth  Stat = "Health"
	StatDamage  Stat = "Damage"
	StatArmour  Stat = "Armour"
	StatShard   Stat = "Shard"
	StatUnknown Stat = "Unknown"
)

// Rank is a character rank. Upgrades listed for a rank promote the character out of it.
type Rank int

const (
	RankLocked Rank = iota
	RankStone1
	RankStone2
	RankStone3
	RankIron1
	RankIron2
	RankIron3
	RankBronze1
	RankBronze2
	RankBronze3
	RankSilver1
	RankSilver2
	RankSilver3
	RankGold1
	RankGold2
	RankGold3
	RankDiamond1
	RankDiamond2
	RankDiamond3
)

var rankNames = []string{
	"Locked",
	"Stone I", "Stone II", "Stone III",
	"Iron I", "Iron II", "Iron III",
	"Bronze I", "Bronze II", "Bronze III",
	"Silver I", "Silver II", "Silver III",
	"Gold I", "Gold II", "Gold III",
	"Diamond I", "Diamond II", "Diamond III",
}

// String returns the display name of the rank.
func (r Rank) String() string {
	if r < 0 || int(r) >= len(rankNames) {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// ParseRank parses a rank display name such as "Bronze II" (case-insensitive).
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// FarmPreference selects which efficiency tier of unlocked locations to farm.
type FarmPreference string

const (
	PreferenceNone           FarmPreference = ""
	PreferenceMostEfficient  FarmPreference = "most_efficient"
	PreferenceMoreEfficient  FarmPreference = "more_efficient"
	PreferenceLeastEfficient FarmPreference = "least_efficient"
)

// ValidPreferences returns all valid farm preferences, including none.
func ValidPreferences() []FarmPreference {
	return []FarmPreference{
		PreferenceNone,
		PreferenceMostEfficient,
		PreferenceMoreEfficient,
		PreferenceLeastEfficient,
	}
}

// IsValid checks if the preference is a known value.
func (p FarmPreference) IsValid() bool {
	for _, valid := range ValidPreferences() {
		if p == valid {
			return true
		}
	}
	return false
}

// OrderMode controls how material demand is grouped and ordered.
type OrderMode string

const (
	// OrderDefault groups demand globally and farms the longest materials first.
	OrderDefault OrderMode = "default"
	// OrderPriority keeps per-character material lists and farms them in goal priority order.
	OrderPriority OrderMode = "priority"
)

// ============================================
// STATIC DATA TYPES
// ============================================

// RecipeItem is one (material, count) pair of a recipe or flattened recipe.
type RecipeItem struct {
	MaterialID string `json:"material"`
	Count      int    `json:"count"`
}

// Material represents a base or craftable upgrade material.
type Material struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Rarity       Rarity       `json:"rarity"`
	Stat         Stat         `json:"stat"`
	Icon         string       `json:"icon,omitempty"`
	Craftable    bool         `json:"craftable"`
	Recipe       []RecipeItem `json:"recipe,omitempty"`
	AllMaterials []RecipeItem `json:"all_materials,omitempty"`
	Locations    []string     `json:"locations,omitempty"`
}

// CampaignConfig holds per-campaign-type battle parameters.
type CampaignConfig struct {
	Type             string             `json:"type"`
	EnergyCost       int                `json:"energy_cost"`
	DailyBattleCount int                `json:"daily_battle_count"`
	ExpectedGold     int                `json:"expected_gold"`
	DropRate         map[Rarity]float64 `json:"drop_rate"`
}

// Campaign is a named campaign of a given type.
type Campaign struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Battle is a single campaign node and the material it rewards.
type Battle struct {
	Campaign   string `json:"campaign"`
	NodeNumber int    `json:"node_number"`
	Reward     string `json:"reward"`
}

// CharacterRanks lists the upgrade materials each rank of a character requires.
type CharacterRanks struct {
	CharacterID string            `json:"id"`
	Name        string            `json:"name"`
	Upgrades    map[Rank][]string `json:"upgrades"`
}

// StaticData is the read-only reference dataset the engine plans against.
type StaticData struct {
	Materials  map[string]Material
	Configs    map[string]CampaignConfig
	Campaigns  map[string]Campaign
	Battles    []Battle
	Characters map[string]CharacterRanks
}

// Location is a farmable campaign node with its derived efficiency.
type Location struct {
	ID               string  `json:"id"`
	Campaign         string  `json:"campaign"`
	CampaignType     string  `json:"campaign_type"`
	NodeNumber       int     `json:"node_number"`
	EnergyCost       int     `json:"energy_cost"`
	DailyBattleCount int     `json:"daily_battle_count"`
	DropRate         float64 `json:"drop_rate"`
	EnergyPerItem    float64 `json:"energy_per_item"`
	ExpectedGold     int     `json:"expected_gold"`
	Reward           string  `json:"reward"`
	RewardRarity     Rarity  `json:"reward_rarity"`
}

// LocationID builds the composite identifier of a campaign node.
func LocationID(campaign string, node int) string {
	return fmt.Sprintf("%s %d", campaign, node)
}

// DailyEnergy is the energy needed to exhaust the node's daily attempts.
func (l Location) DailyEnergy() int {
	return l.EnergyCost * l.DailyBattleCount
}

// ============================================
// PLAYER INPUT TYPES
// ============================================

// CampaignProgress maps campaign name to the furthest unlocked node number.
type CampaignProgress map[string]int

// Unlocked reports whether the location is farmable with this progress.
func (p CampaignProgress) Unlocked(l Location) bool {
	return l.NodeNumber <= p[l.Campaign]
}

// Inventory maps material ID to owned quantity.
type Inventory map[string]int

// Clone returns an independent copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// CharacterRankRange is a single character upgrade goal.
type CharacterRankRange struct {
	CharacterID     string   `json:"character_id" validate:"required"`
	RankStart       Rank     `json:"rank_start"`
	RankEnd         Rank     `json:"rank_end"`
	AppliedUpgrades []string `json:"applied_upgrades,omitempty"`
	Priority        int      `json:"priority,omitempty" validate:"min=0"`
}

// EstimateSettings carries the player state a planning run uses.
type EstimateSettings struct {
	DailyEnergy        int              `json:"daily_energy" validate:"min=1"`
	CampaignsProgress  CampaignProgress `json:"campaigns_progress"`
	Preference         FarmPreference   `json:"preference,omitempty" validate:"omitempty,oneof=most_efficient more_efficient least_efficient"`
	Order              OrderMode        `json:"order,omitempty" validate:"omitempty,oneof=default priority"`
	Inventory          Inventory        `json:"inventory,omitempty"`
	CompletedLocations []MaterialRaid   `json:"completed_locations,omitempty" validate:"dive"`
}

// CompletedEnergy is the energy already spent on battles logged before planning.
func (s EstimateSettings) CompletedEnergy() int {
	total := 0
	for _, raid := range s.CompletedLocations {
		total += raid.EnergySpent()
	}
	return total
}

// ============================================
// COMPUTED TYPES
// ============================================

// FlattenedEntry is one base material of a flattened recipe.
type FlattenedEntry struct {
	MaterialID string `json:"material"`
	Count      int    `json:"count"`
	Owner      string `json:"owner"` // top-level material that introduced the entry
}

// FlattenedRecipe is a material's recipe expanded down to base materials.
type FlattenedRecipe struct {
	MaterialID string           `json:"material"`
	Entries    []FlattenedEntry `json:"entries"`
}

// MaterialDemand is a base material required by a character goal.
type MaterialDemand struct {
	MaterialID string   `json:"material"`
	Label      string   `json:"label"`
	Rarity     Rarity   `json:"rarity"`
	Count      int      `json:"count"`
	Characters []string `json:"characters"`
	Priority   int      `json:"priority"`
}

// RankUpgrades lists the upgrades still needed for one rank.
type RankUpgrades struct {
	Rank     Rank     `json:"rank"`
	Upgrades []string `json:"upgrades"`
}

// CharacterUpgrades is the resolved demand of one character goal.
type CharacterUpgrades struct {
	CharacterID  string           `json:"character_id"`
	Priority     int              `json:"priority"`
	RankStart    Rank             `json:"rank_start"`
	RankEnd      Rank             `json:"rank_end"`
	RankUpgrades []RankUpgrades   `json:"rank_upgrades"`
	Materials    []MaterialDemand `json:"materials"`
}

// EstimatedMaterial is the per-material farming estimate of a planning run.
type EstimatedMaterial struct {
	MaterialID             string     `json:"material"`
	Label                  string     `json:"label"`
	Rarity                 Rarity     `json:"rarity"`
	Stat                   Stat       `json:"stat"`
	Count                  int        `json:"count"`
	CraftedCount           int        `json:"crafted_count"`
	OwnedCount             int        `json:"owned_count"`
	CountLeft              int        `json:"count_left"`
	Characters             []string   `json:"characters"`
	Priority               int        `json:"priority"`
	Locations              []Location `json:"locations"`
	LocationsString        string     `json:"locations_string"`
	MissingLocationsString string     `json:"missing_locations_string"`
	TotalEnergy            int        `json:"total_energy"`
	TotalBattles           int        `json:"total_battles"`
	DaysOfBattles          int        `json:"days_of_battles"`
	DailyEnergy            int        `json:"daily_energy"`
	DailyBattles           int        `json:"daily_battles"`
	Truncated              bool       `json:"truncated,omitempty"`
}

// RaidLocation is a single location hit within a material raid.
type RaidLocation struct {
	LocationID    string  `json:"location"`
	Campaign      string  `json:"campaign"`
	NodeNumber    int     `json:"node_number"`
	EnergyPerItem float64 `json:"energy_per_item"`
	RaidsCount    int     `json:"raids_count" validate:"min=0"`
	EnergySpent   int     `json:"energy_spent" validate:"min=0"`
	FarmedItems   float64 `json:"farmed_items"`
}

// MaterialRaid groups a day's attempts for one material.
type MaterialRaid struct {
	MaterialID    string         `json:"material"`
	MaterialLabel string         `json:"label,omitempty"`
	Rarity        Rarity         `json:"rarity"`
	TotalCount    int            `json:"total_count"`
	Characters    []string       `json:"characters,omitempty"`
	Locations     []RaidLocation `json:"locations" validate:"dive"`
}

// EnergySpent sums the energy of all locations in the raid. Negative entries
// count as zero.
func (r MaterialRaid) EnergySpent() int {
	total := 0
	for _, loc := range r.Locations {
		total += max(0, loc.EnergySpent)
	}
	return total
}

// DailyRaid is one day of the farming plan.
type DailyRaid struct {
	Day        int            `json:"day"`
	EnergyLeft int            `json:"energy_left"`
	Raids      []MaterialRaid `json:"raids"`
}

// Truncation marks a loop that hit its iteration ceiling; the result it belongs to is partial.
type Truncation struct {
	Stage      string `json:"stage"`
	MaterialID string `json:"material,omitempty"`
	Iterations int    `json:"iterations"`
}

// Truncation stages.
const (
	StageSchedule = "schedule"
	StageEstimate = "estimate"
)

// RaidSchedule is the scheduler output.
type RaidSchedule struct {
	Days      []DailyRaid `json:"days"`
	Truncated *Truncation `json:"truncated,omitempty"`
}

// EstimatedRanks is the full result of a planning run.
type EstimatedRanks struct {
	PlanID      string              `json:"plan_id"`
	Raids       []DailyRaid         `json:"raids"`
	Upgrades    []CharacterUpgrades `json:"upgrades"`
	Materials   []EstimatedMaterial `json:"materials"`
	TotalEnergy int                 `json:"total_energy"`
	TotalDays   int                 `json:"total_days"`
	Truncations []Truncation        `json:"truncations,omitempty"`
}

// Partial reports whether any stage of the run was cut short.
func (e *EstimatedRanks) Partial() bool {
	return len(e.Truncations) > 0
}

// MaterialBreakdown is one row of an estimation summary.
type MaterialBreakdown struct {
	MaterialID string `json:"material"`
	Label      string `json:"label"`
	CountLeft  int    `json:"count_left"`
	Energy     int    `json:"energy"`
	Days       int    `json:"days"`
	Missing    string `json:"missing,omitempty"`
}

// Summary aggregates a planning run for display.
type Summary struct {
	TotalEnergy  int                 `json:"total_energy"`
	TotalDays    int                 `json:"total_days"`
	TotalBattles int                 `json:"total_battles"`
	Materials    []MaterialBreakdown `json:"materials"`
	Partial      bool                `json:"partial,omitempty"`
}

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// EstimateRequest is the input for the estimate_raids and material_demand tools.
type EstimateRequest struct {
	Settings EstimateSettings     `json:"settings"`
	Goals    []CharacterRankRange `json:"goals" validate:"required,min=1,dive"`
}

// EstimateResponse is the output for the estimate_raids tool.
type EstimateResponse struct {
	Estimate *EstimatedRanks `json:"estimate"`
	Summary  Summary         `json:"summary"`
}

// MaterialDemandResponse is the output for the material_demand tool.
type MaterialDemandResponse struct {
	Upgrades    []CharacterUpgrades `json:"upgrades"`
	Materials   []EstimatedMaterial `json:"materials"`
	Truncations []Truncation        `json:"truncations,omitempty"`
}

// ResolveRecipeRequest is the input for the resolve_recipe tool.
type ResolveRecipeRequest struct {
	MaterialID string `json:"material_id" validate:"required"`
}

// SelectLocationsRequest is the input for the select_locations tool.
type SelectLocationsRequest struct {
	MaterialID        string           `json:"material_id" validate:"required"`
	CampaignsProgress CampaignProgress `json:"campaigns_progress"`
	Preference        FarmPreference   `json:"preference,omitempty" validate:"omitempty,oneof=most_efficient more_efficient least_efficient"`
}

// SelectLocationsResponse is the output for the select_locations tool.
type SelectLocationsResponse struct {
	MaterialID string     `json:"material_id"`
	Selected   []Location `json:"selected"`
	Missing    []Location `json:"missing"`
}

// MaterialLookupRequest is the input for the material_lookup tool.
type MaterialLookupRequest struct {
	MaterialID string `json:"material_id,omitempty"`
	Search     string `json:"search,omitempty"`
}

// MaterialLookupResponse is the output for the material_lookup tool.
type MaterialLookupResponse struct {
	Material      *Material           `json:"material,omitempty"`
	UsedIn        []string            `json:"used_in,omitempty"`
	SearchResults []MaterialSearchHit `json:"search_results,omitempty"`
	Suggestions   []string            `json:"suggestions,omitempty"`
}

// MaterialSearchHit is a lightweight material match for search results.
type MaterialSearchHit struct {
	MaterialID string `json:"material_id"`
	Label      string `json:"label"`
	Rarity     Rarity `json:"rarity"`
}
