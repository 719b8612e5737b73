package item

import (
	"context"

	"github.com/baskoro/barpos-inventory-service/internal/item/dto"
	"github.com/baskoro/barpos-inventory-service/internal/model"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*model.InventoryItem, error)
	List(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
}
