package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema kept to the SQL subset both backends accept.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		category TEXT,
		cost_per_unit DOUBLE PRECISION,
		min_stock_level DOUBLE PRECISION NOT NULL,
		track_stock BOOLEAN NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS location_stock (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		current_stock DOUBLE PRECISION NOT NULL,
		min_stock_level DOUBLE PRECISION NOT NULL,
		is_active BOOLEAN NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (location_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		previous_stock DOUBLE PRECISION NOT NULL,
		new_stock DOUBLE PRECISION NOT NULL,
		reference TEXT,
		reference_type TEXT,
		notes TEXT NOT NULL,
		created_by TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_reference
		ON stock_movements (reference, item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_location_item
		ON stock_movements (location_id, item_id)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id TEXT PRIMARY KEY,
		source_location TEXT NOT NULL,
		destination_location TEXT NOT NULL,
		item_id TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		requested_by TEXT NOT NULL,
		approved_by TEXT,
		notes TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_status
		ON transfers (status)`,
}

// Migrate applies the schema. Statements are idempotent, so running at
// every startup is safe.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
