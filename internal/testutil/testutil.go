package testutil

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/baskoro/barpos-inventory-service/internal/database"
)

// NewDB opens a fresh in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedLocation inserts a location with a fixed id so tests can refer to it.
func SeedLocation(t *testing.T, db *sqlx.DB, id, name, kind string) {
	t.Helper()

	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO locations (id, name, kind, is_active, created_at, updated_at) VALUES (?, ?, ?, TRUE, ?, ?)`,
		id, name, kind, now, now,
	)
	require.NoError(t, err)
}

// SeedItem inserts an inventory item with a fixed id.
func SeedItem(t *testing.T, db *sqlx.DB, id, name string, tracked bool, minStock float64) {
	t.Helper()

	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO inventory_items (id, name, unit, category, cost_per_unit, min_stock_level, track_stock, is_active, created_at, updated_at)
		 VALUES (?, ?, 'pcs', NULL, NULL, ?, ?, TRUE, ?, ?)`,
		id, name, minStock, tracked, now, now,
	)
	require.NoError(t, err)
}
