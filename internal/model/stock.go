package model

import "time"

// Movement types recorded in the stock_movements audit table.
const (
	MovementTypeIn          = "in"
	MovementTypeOut         = "out"
	MovementTypeAdjustment  = "adjustment"
	MovementTypeTransferOut = "transfer_out"
	MovementTypeTransferIn  = "transfer_in"
)

type LocationStock struct {
	ID            string    `db:"id"`
	LocationID    string    `db:"location_id"`
	ItemID        string    `db:"item_id"`
	CurrentStock  float64   `db:"current_stock"`
	MinStockLevel float64   `db:"min_stock_level"`
	IsActive      bool      `db:"is_active"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// StockMovement is append-only. Rows are never updated or deleted;
// NewStock - PreviousStock always equals the signed quantity.
type StockMovement struct {
	ID            string    `db:"id"`
	ItemID        string    `db:"item_id"`
	LocationID    string    `db:"location_id"`
	MovementType  string    `db:"movement_type"`
	Quantity      float64   `db:"quantity"`
	PreviousStock float64   `db:"previous_stock"`
	NewStock      float64   `db:"new_stock"`
	Reference     *string   `db:"reference"`
	ReferenceType *string   `db:"reference_type"` // 'order', 'transfer', 'import', 'manual'
	Notes         string    `db:"notes"`
	CreatedBy     *string   `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
