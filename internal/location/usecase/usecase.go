package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/location"
	"github.com/baskoro/barpos-inventory-service/internal/location/dto"
	"github.com/baskoro/barpos-inventory-service/internal/model"
)

type locationUseCase struct {
	repo   location.Repository
	logger *zap.Logger
}

func NewLocationUseCase(repo location.Repository, logger *zap.Logger) location.UseCase {
	return &locationUseCase{repo: repo, logger: logger}
}

func (uc *locationUseCase) Create(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	if input.Name == "" {
		return nil, errors.New("location name is required")
	}
	if input.Kind != model.LocationKindStore && input.Kind != model.LocationKindBar {
		return nil, fmt.Errorf("unknown location kind %q", input.Kind)
	}

	now := time.Now().UTC()
	loc := &model.Location{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     input.Name,
		Kind:     input.Kind,
		IsActive: true,
	}

	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (uc *locationUseCase) GetByID(ctx context.Context, id string) (*model.Location, error) {
	loc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("location %s: %w", id, apperr.ErrNotFound)
	}
	return loc, nil
}

func (uc *locationUseCase) List(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
