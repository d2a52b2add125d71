package db

import (
	"context"
	"fmt"

	"github.com/rsned/raid-planner/pkg/planner"
)

// LoadStaticData reads the full reference dataset the engine plans against.
func LoadStaticData(ctx context.Context, database *DB) (*planner.StaticData, error) {
	materials, err := NewMaterialStore(database).GetAllMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading materials: %w", err)
	}

	campaigns := NewCampaignStore(database)
	configs, err := campaigns.GetAllConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading campaign configs: %w", err)
	}
	byName, err := campaigns.GetAllCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading campaigns: %w", err)
	}
	battles, err := campaigns.GetAllBattles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading battles: %w", err)
	}

	characters, err := NewCharacterStore(database).GetAllCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}

	return &planner.StaticData{
		Materials:  materials,
		Configs:    configs,
		Campaigns:  byName,
		Battles:    battles,
		Characters: characters,
	}, nil
}

// StaticCounts sizes the stored dataset.
type StaticCounts struct {
	Materials  int
	Battles    int
	Characters int
}

// CountStaticData reports how many materials, battles and characters are stored.
func CountStaticData(ctx context.Context, database *DB) (StaticCounts, error) {
	var c StaticCounts
	var err error

	if c.Materials, err = NewMaterialStore(database).CountMaterials(ctx); err != nil {
		return c, fmt.Errorf("counting materials: %w", err)
	}
	if c.Battles, err = NewCampaignStore(database).CountBattles(ctx); err != nil {
		return c, fmt.Errorf("counting battles: %w", err)
	}
	if c.Characters, err = NewCharacterStore(database).CountCharacters(ctx); err != nil {
		return c, fmt.Errorf("counting characters: %w", err)
	}
	return c, nil
}
