package stock

import (
	"context"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

type UseCase interface {
	Credit(ctx context.Context, input *dto.MutationInput) (*model.StockMovement, error)
	Debit(ctx context.Context, input *dto.MutationInput) (*model.StockMovement, error)
	Adjust(ctx context.Context, input *dto.AdjustInput) (*model.StockMovement, error)

	GetStock(ctx context.Context, locationID, itemID string) (float64, error)
	ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.LocationStock, int, error)
	ListLowStock(ctx context.Context, locationID string, page, pageSize int) ([]model.LocationStock, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	ApplyBatch(ctx context.Context, entries []dto.BatchEntry, userID string) []dto.BatchResult
}

// ItemReader and LocationReader are the slices of the catalog this
// feature needs; implemented by the item and location repositories.
type ItemReader interface {
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
}

type LocationReader interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}
