package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsned/raid-planner/pkg/planner"
)

// MaterialStore handles material and recipe data access.
type MaterialStore struct {
	db *DB
}

// NewMaterialStore creates a new MaterialStore.
func NewMaterialStore(db *DB) *MaterialStore {
	return &MaterialStore{db: db}
}

// GetAllMaterials retrieves every material keyed by ID, recipes included.
func (s *MaterialStore) GetAllMaterials(ctx context.Context) (map[string]planner.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, rarity, stat, icon, craftable
		FROM materials
	`)
	if err != nil {
		return nil, fmt.Errorf("querying all materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	materials := make(map[string]planner.Material)
	for rows.Next() {
		var m planner.Material
		var rarity int
		var stat string
		if err := rows.Scan(&m.ID, &m.Label, &rarity, &stat, &m.Icon, &m.Craftable); err != nil {
			return nil, fmt.Errorf("scanning material: %w", err)
		}
		m.Rarity = planner.Rarity(rarity)
		m.Stat = planner.Stat(stat)
		materials[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass over components rather than a query per material.
	compRows, err := s.db.QueryContext(ctx, `
		SELECT material_id, component_id, count
		FROM recipe_components
		ORDER BY material_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying recipe components: %w", err)
	}
	defer func() { _ = compRows.Close() }()

	for compRows.Next() {
		var materialID string
		var it planner.RecipeItem
		if err := compRows.Scan(&materialID, &it.MaterialID, &it.Count); err != nil {
			return nil, fmt.Errorf("scanning recipe component: %w", err)
		}
		m, ok := materials[materialID]
		if !ok {
			continue
		}
		m.Recipe = append(m.Recipe, it)
		materials[materialID] = m
	}

	return materials, compRows.Err()
}

// SearchMaterials searches materials by label or ID (case-insensitive partial match).
func (s *MaterialStore) SearchMaterials(ctx context.Context, term string, limit int) ([]planner.MaterialSearchHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, rarity
		FROM materials
		WHERE label LIKE ? OR id LIKE ?
		ORDER BY label
		LIMIT ?
	`, "%"+term+"%", "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []planner.MaterialSearchHit
	for rows.Next() {
		var hit planner.MaterialSearchHit
		var rarity int
		if err := rows.Scan(&hit.MaterialID, &hit.Label, &rarity); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hit.Rarity = planner.Rarity(rarity)
		results = append(results, hit)
	}

	return results, rows.Err()
}

// GetMaterialsUsing finds craftable materials whose recipe uses the given component.
func (s *MaterialStore) GetMaterialsUsing(ctx context.Context, componentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT material_id
		FROM recipe_components
		WHERE component_id = ?
		ORDER BY material_id
	`, componentID)
	if err != nil {
		return nil, fmt.Errorf("finding materials using component: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning material id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountMaterials returns the total number of materials.
func (s *MaterialStore) CountMaterials(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting materials: %w", err)
	}
	return count, nil
}

// BulkInsertMaterials inserts multiple materials and their recipes in a transaction.
func (s *MaterialStore) BulkInsertMaterials(ctx context.Context, materials []planner.Material) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		matStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO materials (id, label, rarity, stat, icon, craftable)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing material statement: %w", err)
		}
		defer func() { _ = matStmt.Close() }()

		clearStmt, err := tx.PrepareContext(ctx, `DELETE FROM recipe_components WHERE material_id = ?`)
		if err != nil {
			return fmt.Errorf("preparing recipe clear statement: %w", err)
		}
		defer func() { _ = clearStmt.Close() }()

		compStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recipe_components (material_id, position, component_id, count)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing component statement: %w", err)
		}
		defer func() { _ = compStmt.Close() }()

		for _, m := range materials {
			stat := m.Stat
			if stat == "" {
				stat = planner.StatUnknown
			}
			if _, err := matStmt.ExecContext(ctx,
				m.ID, m.Label, int(m.Rarity), string(stat), m.Icon, m.Craftable,
			); err != nil {
				return fmt.Errorf("inserting material %s: %w", m.ID, err)
			}

			if _, err := clearStmt.ExecContext(ctx, m.ID); err != nil {
				return fmt.Errorf("clearing recipe for %s: %w", m.ID, err)
			}
			for pos, c := range m.Recipe {
				if _, err := compStmt.ExecContext(ctx, m.ID, pos, c.MaterialID, c.Count); err != nil {
					return fmt.Errorf("inserting component for %s: %w", m.ID, err)
				}
			}
		}

		return nil
	})
}

// ClearMaterials removes all material data (for re-sync).
func (s *MaterialStore) ClearMaterials(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys cascade to recipe_components.
		_, err := tx.ExecContext(ctx, `DELETE FROM materials`)
		return err
	})
}
