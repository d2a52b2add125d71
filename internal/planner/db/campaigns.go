package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsned/raid-planner/pkg/planner"
)

// CampaignStore handles campaign configs, campaigns and battle nodes.
type CampaignStore struct {
	db *DB
}

// NewCampaignStore creates a new CampaignStore.
func NewCampaignStore(db *DB) *CampaignStore {
	return &CampaignStore{db: db}
}

// GetAllConfigs retrieves every campaign config keyed by campaign type.
func (s *CampaignStore) GetAllConfigs(ctx context.Context) (map[string]planner.CampaignConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, energy_cost, daily_battle_count, expected_gold
		FROM campaign_configs
	`)
	if err != nil {
		return nil, fmt.Errorf("querying campaign configs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	configs := make(map[string]planner.CampaignConfig)
	for rows.Next() {
		var c planner.CampaignConfig
		if err := rows.Scan(&c.Type, &c.EnergyCost, &c.DailyBattleCount, &c.ExpectedGold); err != nil {
			return nil, fmt.Errorf("scanning campaign config: %w", err)
		}
		c.DropRate = make(map[planner.Rarity]float64)
		configs[c.Type] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rateRows, err := s.db.QueryContext(ctx, `
		SELECT type, rarity, drop_rate
		FROM campaign_drop_rates
	`)
	if err != nil {
		return nil, fmt.Errorf("querying drop rates: %w", err)
	}
	defer func() { _ = rateRows.Close() }()

	for rateRows.Next() {
		var campaignType string
		var rarity int
		var rate float64
		if err := rateRows.Scan(&campaignType, &rarity, &rate); err != nil {
			return nil, fmt.Errorf("scanning drop rate: %w", err)
		}
		if c, ok := configs[campaignType]; ok {
			c.DropRate[planner.Rarity(rarity)] = rate
		}
	}

	return configs, rateRows.Err()
}

// GetAllCampaigns retrieves every campaign keyed by name.
func (s *CampaignStore) GetAllCampaigns(ctx context.Context) (map[string]planner.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM campaigns`)
	if err != nil {
		return nil, fmt.Errorf("querying campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	campaigns := make(map[string]planner.Campaign)
	for rows.Next() {
		var c planner.Campaign
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning campaign: %w", err)
		}
		campaigns[c.Name] = c
	}

	return campaigns, rows.Err()
}

// GetAllBattles retrieves every battle node ordered by campaign and node number.
func (s *CampaignStore) GetAllBattles(ctx context.Context) ([]planner.Battle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT campaign, node_number, reward
		FROM battles
		ORDER BY campaign, node_number
	`)
	if err != nil {
		return nil, fmt.Errorf("querying battles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var battles []planner.Battle
	for rows.Next() {
		var b planner.Battle
		if err := rows.Scan(&b.Campaign, &b.NodeNumber, &b.Reward); err != nil {
			return nil, fmt.Errorf("scanning battle: %w", err)
		}
		battles = append(battles, b)
	}

	return battles, rows.Err()
}

// CountBattles returns the total number of battle nodes.
func (s *CampaignStore) CountBattles(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM battles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting battles: %w", err)
	}
	return count, nil
}

// BulkInsertCampaignData inserts configs, campaigns and battles in one transaction.
func (s *CampaignStore) BulkInsertCampaignData(
	ctx context.Context,
	configs []planner.CampaignConfig,
	campaigns []planner.Campaign,
	battles []planner.Battle,
) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		cfgStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO campaign_configs (type, energy_cost, daily_battle_count, expected_gold)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing config statement: %w", err)
		}
		defer func() { _ = cfgStmt.Close() }()

		rateStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO campaign_drop_rates (type, rarity, drop_rate)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing drop rate statement: %w", err)
		}
		defer func() { _ = rateStmt.Close() }()

		for _, c := range configs {
			if _, err := cfgStmt.ExecContext(ctx,
				c.Type, c.EnergyCost, c.DailyBattleCount, c.ExpectedGold,
			); err != nil {
				return fmt.Errorf("inserting campaign config %s: %w", c.Type, err)
			}
			for rarity, rate := range c.DropRate {
				if _, err := rateStmt.ExecContext(ctx, c.Type, int(rarity), rate); err != nil {
					return fmt.Errorf("inserting drop rate for %s: %w", c.Type, err)
				}
			}
		}

		campStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO campaigns (name, type) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing campaign statement: %w", err)
		}
		defer func() { _ = campStmt.Close() }()

		for _, c := range campaigns {
			if _, err := campStmt.ExecContext(ctx, c.Name, c.Type); err != nil {
				return fmt.Errorf("inserting campaign %s: %w", c.Name, err)
			}
		}

		battleStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO battles (campaign, node_number, reward) VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing battle statement: %w", err)
		}
		defer func() { _ = battleStmt.Close() }()

		for _, b := range battles {
			if _, err := battleStmt.ExecContext(ctx, b.Campaign, b.NodeNumber, b.Reward); err != nil {
				return fmt.Errorf("inserting battle %s: %w", planner.LocationID(b.Campaign, b.NodeNumber), err)
			}
		}

		return nil
	})
}

// ClearCampaignData removes all campaign data.
func (s *CampaignStore) ClearCampaignData(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"battles", "campaigns", "campaign_configs"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return nil
	})
}
