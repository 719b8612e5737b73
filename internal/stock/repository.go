package stock

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

// Mutation describes one atomic stock change. Exactly one location_stock
// update and one stock_movements row come out of applying it.
type Mutation struct {
	LocationID    string
	ItemID        string
	Quantity      float64
	MovementType  string
	Reference     *string
	ReferenceType *string
	Notes         string
	CreatedBy     *string
}

type Repository interface {
	// Reads
	GetStock(ctx context.Context, locationID, itemID string) (float64, error)
	GetStockRow(ctx context.Context, locationID, itemID string) (*model.LocationStock, error)
	FindAll(ctx context.Context, filters *dto.StockFilters) ([]model.LocationStock, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Atomic primitives. Each runs in its own transaction.
	Credit(ctx context.Context, m *Mutation) (*model.StockMovement, error)
	Debit(ctx context.Context, m *Mutation) (*model.StockMovement, error)
	Adjust(ctx context.Context, m *Mutation) (*model.StockMovement, error)

	// Tx-scoped variants for workflows that combine stock changes with
	// their own row writes in one unit of work.
	CreditTx(ctx context.Context, tx *sqlx.Tx, m *Mutation) (*model.StockMovement, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, m *Mutation) (*model.StockMovement, error)

	// Idempotency support: reports whether a movement referencing the
	// given reference id already exists for the item.
	HasMovementForReferenceTx(ctx context.Context, tx *sqlx.Tx, reference, itemID string) (bool, error)
}
