package location

import (
	"context"

	"github.com/baskoro/barpos-inventory-service/internal/location/dto"
	"github.com/baskoro/barpos-inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, loc *model.Location) error
	FindByID(ctx context.Context, id string) (*model.Location, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
}

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	GetByID(ctx context.Context, id string) (*model.Location, error)
	List(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
}
