package order

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/order/dto"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
)

type UseCase interface {
	// ValidateCart is a read-only, advisory pre-check. Stock can be
	// consumed by a concurrent sale between validation and deduction;
	// the debit inside ApplyCartDeduction is the authoritative check.
	ValidateCart(ctx context.Context, barID string, lines []dto.CartLine) (*dto.ValidationResult, error)

	// ApplyCartDeduction debits every tracked line in one transaction,
	// keyed by order id: a retried call never deducts twice, and a
	// partial failure rolls the whole order's deduction back.
	ApplyCartDeduction(ctx context.Context, input *dto.DeductionInput) ([]*model.StockMovement, error)
}

// StockAccess is the slice of the stock repository the deduction needs.
type StockAccess interface {
	GetStock(ctx context.Context, locationID, itemID string) (float64, error)
	GetStockRow(ctx context.Context, locationID, itemID string) (*model.LocationStock, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error)
	HasMovementForReferenceTx(ctx context.Context, tx *sqlx.Tx, reference, itemID string) (bool, error)
}
