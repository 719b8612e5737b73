package item

import (
	"context"

	"github.com/baskoro/barpos-inventory-service/internal/item/dto"
	"github.com/baskoro/barpos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
}
