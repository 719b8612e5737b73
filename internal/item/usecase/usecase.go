package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/item"
	"github.com/baskoro/barpos-inventory-service/internal/item/dto"
	"github.com/baskoro/barpos-inventory-service/internal/model"
)

type itemUseCase struct {
	repo   item.Repository
	logger *zap.Logger
}

func NewItemUseCase(repo item.Repository, logger *zap.Logger) item.UseCase {
	return &itemUseCase{repo: repo, logger: logger}
}

func (uc *itemUseCase) Create(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	if input.Name == "" {
		return nil, errors.New("item name is required")
	}
	if input.Unit == "" {
		return nil, errors.New("item unit is required")
	}
	if input.MinStockLevel < 0 {
		return nil, apperr.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	newItem := &model.InventoryItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          input.Name,
		Unit:          input.Unit,
		CostPerUnit:   input.CostPerUnit,
		MinStockLevel: input.MinStockLevel,
		TrackStock:    input.TrackStock,
		IsActive:      true,
	}
	if input.Category != "" {
		newItem.Category = &input.Category
	}

	if err := uc.repo.Create(ctx, newItem); err != nil {
		return nil, err
	}
	return newItem, nil
}

func (uc *itemUseCase) GetByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	it, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}
	return it, nil
}

func (uc *itemUseCase) List(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
