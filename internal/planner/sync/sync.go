// Package sync imports the static game dataset from JSON exports.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rsned/raid-planner/internal/planner/db"
	"github.com/rsned/raid-planner/pkg/planner"
)

// File names looked up by ImportDirectory.
const (
	MaterialsFile  = "materials.json"
	CampaignsFile  = "campaigns.json"
	CharactersFile = "characters.json"
)

// Syncer loads static data files into the database.
type Syncer struct {
	db     *db.DB
	logger *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{db: database, logger: logger}
}

// MaterialImport is one entry of the materials export.
type MaterialImport struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Rarity    string `json:"rarity"`
	Stat      string `json:"stat,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Craftable bool   `json:"craftable"`

	// Older exports use "id" instead of "material" for recipe items.
	Recipe []struct {
		Material string `json:"material,omitempty"`
		ID       string `json:"id,omitempty"`
		Count    int    `json:"count"`
	} `json:"recipe,omitempty"`
}

// CampaignConfigImport is one campaign type of the campaigns export.
type CampaignConfigImport struct {
	Type             string             `json:"type"`
	EnergyCost       int                `json:"energyCost"`
	DailyBattleCount int                `json:"dailyBattleCount"`
	ExpectedGold     int                `json:"expectedGold,omitempty"`
	DropRate         map[string]float64 `json:"dropRate"`
}

// CampaignsImport is the campaigns export: configs, campaigns and their battles.
type CampaignsImport struct {
	Configs   []CampaignConfigImport `json:"configs"`
	Campaigns []planner.Campaign     `json:"campaigns"`
	Battles   []struct {
		Campaign   string `json:"campaign"`
		NodeNumber int    `json:"nodeNumber"`
		Reward     string `json:"reward"`
	} `json:"battles"`
}

// CharacterImport is one entry of the characters export. Upgrades are keyed
// by rank name, e.g. "Bronze II".
type CharacterImport struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Upgrades map[string][]string `json:"upgrades"`
}

// ImportMaterialsFromFile imports materials from a JSON file.
func (s *Syncer) ImportMaterialsFromFile(ctx context.Context, path string) error {
	var imports []MaterialImport
	if err := readJSON(path, &imports); err != nil {
		return err
	}

	materials := make([]planner.Material, 0, len(imports))
	for _, imp := range imports {
		material, err := transformMaterial(imp)
		if err != nil {
			return err
		}
		materials = append(materials, material)
	}

	store := db.NewMaterialStore(s.db)
	if err := store.BulkInsertMaterials(ctx, materials); err != nil {
		return fmt.Errorf("inserting materials: %w", err)
	}

	s.logger.Info("imported materials", "path", path, "count", len(materials))
	return s.recordSync(ctx, "materials", len(materials))
}

// ImportCampaignsFromFile imports campaign configs, campaigns and battles from a JSON file.
func (s *Syncer) ImportCampaignsFromFile(ctx context.Context, path string) error {
	var imp CampaignsImport
	if err := readJSON(path, &imp); err != nil {
		return err
	}

	configs := make([]planner.CampaignConfig, 0, len(imp.Configs))
	for _, c := range imp.Configs {
		cfg, err := transformCampaignConfig(c)
		if err != nil {
			return err
		}
		configs = append(configs, cfg)
	}

	battles := make([]planner.Battle, 0, len(imp.Battles))
	for _, b := range imp.Battles {
		if b.Campaign == "" || b.Reward == "" {
			s.logger.Warn("skipping incomplete battle", "campaign", b.Campaign, "node", b.NodeNumber)
			continue
		}
		battles = append(battles, planner.Battle{
			Campaign:   b.Campaign,
			NodeNumber: b.NodeNumber,
			Reward:     b.Reward,
		})
	}

	store := db.NewCampaignStore(s.db)
	if err := store.BulkInsertCampaignData(ctx, configs, imp.Campaigns, battles); err != nil {
		return fmt.Errorf("inserting campaign data: %w", err)
	}

	s.logger.Info("imported campaigns", "path", path,
		"configs", len(configs),
		"campaigns", len(imp.Campaigns),
		"battles", len(battles),
	)
	return s.recordSync(ctx, "battles", len(battles))
}

// ImportCharactersFromFile imports character rank upgrade tables from a JSON file.
func (s *Syncer) ImportCharactersFromFile(ctx context.Context, path string) error {
	var imports []CharacterImport
	if err := readJSON(path, &imports); err != nil {
		return err
	}

	characters := make([]planner.CharacterRanks, 0, len(imports))
	for _, imp := range imports {
		c, err := transformCharacter(imp)
		if err != nil {
			return err
		}
		characters = append(characters, c)
	}

	store := db.NewCharacterStore(s.db)
	if err := store.BulkInsertCharacters(ctx, characters); err != nil {
		return fmt.Errorf("inserting characters: %w", err)
	}

	s.logger.Info("imported characters", "path", path, "count", len(characters))
	return s.recordSync(ctx, "characters", len(characters))
}

// ImportDirectory imports every known export file present in dir.
// Materials go first so battles and recipes reference known rows.
func (s *Syncer) ImportDirectory(ctx context.Context, dir string) error {
	steps := []struct {
		file string
		load func(context.Context, string) error
	}{
		{MaterialsFile, s.ImportMaterialsFromFile},
		{CampaignsFile, s.ImportCampaignsFromFile},
		{CharactersFile, s.ImportCharactersFromFile},
	}

	imported := 0
	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("export file not present", "path", path)
			continue
		}
		if err := step.load(ctx, path); err != nil {
			return fmt.Errorf("importing %s: %w", step.file, err)
		}
		imported++
	}

	if imported == 0 {
		return fmt.Errorf("no export files found in %s", dir)
	}
	return nil
}

// ClearAll removes all static data from the database.
func (s *Syncer) ClearAll(ctx context.Context) error {
	if err := db.NewCharacterStore(s.db).ClearCharacters(ctx); err != nil {
		return fmt.Errorf("clearing characters: %w", err)
	}
	if err := db.NewCampaignStore(s.db).ClearCampaignData(ctx); err != nil {
		return fmt.Errorf("clearing campaigns: %w", err)
	}
	if err := db.NewMaterialStore(s.db).ClearMaterials(ctx); err != nil {
		return fmt.Errorf("clearing materials: %w", err)
	}
	return nil
}

func (s *Syncer) recordSync(ctx context.Context, entity string, count int) error {
	return s.db.RecordImport(ctx, entity, count, time.Now())
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}

// transformMaterial converts import format to domain format.
func transformMaterial(imp MaterialImport) (planner.Material, error) {
	if imp.ID == "" {
		return planner.Material{}, fmt.Errorf("material without id (label %q)", imp.Label)
	}
	rarity, err := planner.ParseRarity(imp.Rarity)
	if err != nil {
		return planner.Material{}, fmt.Errorf("material %s: %w", imp.ID, err)
	}

	m := planner.Material{
		ID:        imp.ID,
		Label:     imp.Label,
		Rarity:    rarity,
		Stat:      planner.Stat(imp.Stat),
		Icon:      imp.Icon,
		Craftable: imp.Craftable,
	}
	if m.Label == "" {
		m.Label = imp.ID
	}
	if m.Stat == "" {
		m.Stat = planner.StatUnknown
	}

	for _, item := range imp.Recipe {
		id := item.Material
		if id == "" {
			id = item.ID
		}
		if id == "" || item.Count <= 0 {
			continue
		}
		m.Recipe = append(m.Recipe, planner.RecipeItem{MaterialID: id, Count: item.Count})
	}

	return m, nil
}

// transformCampaignConfig converts import format to domain format.
func transformCampaignConfig(imp CampaignConfigImport) (planner.CampaignConfig, error) {
	cfg := planner.CampaignConfig{
		Type:             imp.Type,
		EnergyCost:       imp.EnergyCost,
		DailyBattleCount: imp.DailyBattleCount,
		ExpectedGold:     imp.ExpectedGold,
		DropRate:         make(map[planner.Rarity]float64, len(imp.DropRate)),
	}
	for name, rate := range imp.DropRate {
		rarity, err := planner.ParseRarity(name)
		if err != nil {
			return planner.CampaignConfig{}, fmt.Errorf("campaign type %s: %w", imp.Type, err)
		}
		cfg.DropRate[rarity] = rate
	}
	return cfg, nil
}

// transformCharacter converts import format to domain format.
func transformCharacter(imp CharacterImport) (planner.CharacterRanks, error) {
	c := planner.CharacterRanks{
		CharacterID: imp.ID,
		Name:        imp.Name,
		Upgrades:    make(map[planner.Rank][]string, len(imp.Upgrades)),
	}
	if c.Name == "" {
		c.Name = imp.ID
	}

	names := make([]string, 0, len(imp.Upgrades))
	for name := range imp.Upgrades {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rank, err := planner.ParseRank(name)
		if err != nil {
			return planner.CharacterRanks{}, fmt.Errorf("character %s: %w", imp.ID, err)
		}
		c.Upgrades[rank] = append(c.Upgrades[rank], imp.Upgrades[name]...)
	}

	return c, nil
}
