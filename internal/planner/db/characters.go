package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/rsned/raid-planner/pkg/planner"
)

// CharacterStore handles character rank upgrade tables.
type CharacterStore struct {
	db *DB
}

// NewCharacterStore creates a new CharacterStore.
func NewCharacterStore(db *DB) *CharacterStore {
	return &CharacterStore{db: db}
}

// GetAllCharacters retrieves every character's rank upgrade table keyed by ID.
func (s *CharacterStore) GetAllCharacters(ctx context.Context) (map[string]planner.CharacterRanks, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM characters`)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	characters := make(map[string]planner.CharacterRanks)
	for rows.Next() {
		c := planner.CharacterRanks{Upgrades: make(map[planner.Rank][]string)}
		if err := rows.Scan(&c.CharacterID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		characters[c.CharacterID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	upRows, err := s.db.QueryContext(ctx, `
		SELECT character_id, rank, upgrade_id
		FROM character_rank_upgrades
		ORDER BY character_id, rank, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rank upgrades: %w", err)
	}
	defer func() { _ = upRows.Close() }()

	for upRows.Next() {
		var characterID, upgradeID string
		var rank int
		if err := upRows.Scan(&characterID, &rank, &upgradeID); err != nil {
			return nil, fmt.Errorf("scanning rank upgrade: %w", err)
		}
		c, ok := characters[characterID]
		if !ok {
			continue
		}
		c.Upgrades[planner.Rank(rank)] = append(c.Upgrades[planner.Rank(rank)], upgradeID)
	}

	return characters, upRows.Err()
}

// CountCharacters returns the total number of characters.
func (s *CharacterStore) CountCharacters(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return count, nil
}

// BulkInsertCharacters inserts characters and their rank upgrades in a transaction.
func (s *CharacterStore) BulkInsertCharacters(ctx context.Context, characters []planner.CharacterRanks) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		charStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO characters (id, name) VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing character statement: %w", err)
		}
		defer func() { _ = charStmt.Close() }()

		clearStmt, err := tx.PrepareContext(ctx, `DELETE FROM character_rank_upgrades WHERE character_id = ?`)
		if err != nil {
			return fmt.Errorf("preparing upgrade clear statement: %w", err)
		}
		defer func() { _ = clearStmt.Close() }()

		upStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO character_rank_upgrades (character_id, rank, position, upgrade_id)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing upgrade statement: %w", err)
		}
		defer func() { _ = upStmt.Close() }()

		for _, c := range characters {
			if _, err := charStmt.ExecContext(ctx, c.CharacterID, c.Name); err != nil {
				return fmt.Errorf("inserting character %s: %w", c.CharacterID, err)
			}
			if _, err := clearStmt.ExecContext(ctx, c.CharacterID); err != nil {
				return fmt.Errorf("clearing upgrades for %s: %w", c.CharacterID, err)
			}

			ranks := make([]planner.Rank, 0, len(c.Upgrades))
			for rank := range c.Upgrades {
				ranks = append(ranks, rank)
			}
			sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

			for _, rank := range ranks {
				for pos, upgradeID := range c.Upgrades[rank] {
					if _, err := upStmt.ExecContext(ctx, c.CharacterID, int(rank), pos, upgradeID); err != nil {
						return fmt.Errorf("inserting upgrade for %s: %w", c.CharacterID, err)
					}
				}
			}
		}

		return nil
	})
}

// ClearCharacters removes all character data.
func (s *CharacterStore) ClearCharacters(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM characters`)
		return err
	})
}
