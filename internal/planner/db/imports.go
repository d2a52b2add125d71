package db

import (
	"context"
	"fmt"
	"time"
)

// ImportRecord is the ledger entry left by the last import of an entity kind.
type ImportRecord struct {
	Entity     string
	Count      int
	ImportedAt time.Time
}

// RecordImport stores how many records of entity were imported and when.
func (db *DB) RecordImport(ctx context.Context, entity string, count int, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO imports (entity, record_count, imported_at)
		VALUES (?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET
			record_count = excluded.record_count,
			imported_at = excluded.imported_at
	`, entity, count, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording %s import: %w", entity, err)
	}
	return nil
}

// ImportStatus lists the ledger ordered by entity.
func (db *DB) ImportStatus(ctx context.Context) ([]ImportRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT entity, record_count, imported_at FROM imports ORDER BY entity`)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var (
			r  ImportRecord
			at string
		)
		if err := rows.Scan(&r.Entity, &r.Count, &at); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		if r.ImportedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("parsing import time of %s: %w", r.Entity, err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
