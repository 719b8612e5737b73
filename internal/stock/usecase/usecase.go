package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
)

type stockUseCase struct {
	repo      stock.Repository
	items     stock.ItemReader
	locations stock.LocationReader
	cache     cache.StockCache
	events    events.Publisher
	logger    *zap.Logger
}

func NewStockUseCase(
	repo stock.Repository,
	items stock.ItemReader,
	locations stock.LocationReader,
	stockCache cache.StockCache,
	publisher events.Publisher,
	logger *zap.Logger,
) stock.UseCase {
	return &stockUseCase{
		repo:      repo,
		items:     items,
		locations: locations,
		cache:     stockCache,
		events:    publisher,
		logger:    logger,
	}
}

func (uc *stockUseCase) Credit(ctx context.Context, input *dto.MutationInput) (*model.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, apperr.ErrInvalidQuantity
	}
	if _, err := uc.resolveRefs(ctx, input.LocationID, input.ItemID); err != nil {
		return nil, err
	}

	movement, err := uc.repo.Credit(ctx, uc.buildMutation(input, model.MovementTypeIn))
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, movement)
	return movement, nil
}

func (uc *stockUseCase) Debit(ctx context.Context, input *dto.MutationInput) (*model.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, apperr.ErrInvalidQuantity
	}
	if _, err := uc.resolveRefs(ctx, input.LocationID, input.ItemID); err != nil {
		return nil, err
	}

	movement, err := uc.repo.Debit(ctx, uc.buildMutation(input, model.MovementTypeOut))
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, movement)
	return movement, nil
}

func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustInput) (*model.StockMovement, error) {
	if input.NewQuantity < 0 {
		return nil, apperr.ErrInvalidQuantity
	}
	if _, err := uc.resolveRefs(ctx, input.LocationID, input.ItemID); err != nil {
		return nil, err
	}

	// The mutation carries the absolute target quantity; the repository
	// records |new - previous| on the movement row.
	m := &stock.Mutation{
		LocationID:   input.LocationID,
		ItemID:       input.ItemID,
		Quantity:     input.NewQuantity,
		MovementType: model.MovementTypeAdjustment,
		Notes:        input.Reason,
		CreatedBy:    optional(input.UserID),
	}

	movement, err := uc.repo.Adjust(ctx, m)
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, movement)
	return movement, nil
}

func (uc *stockUseCase) GetStock(ctx context.Context, locationID, itemID string) (float64, error) {
	if qty, ok := uc.cache.Get(ctx, locationID, itemID); ok {
		return qty, nil
	}

	qty, err := uc.repo.GetStock(ctx, locationID, itemID)
	if err != nil {
		return 0, err
	}
	uc.cache.Set(ctx, locationID, itemID, qty)
	return qty, nil
}

func (uc *stockUseCase) ListStock(ctx context.Context, filters *dto.StockFilters) ([]model.LocationStock, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *stockUseCase) ListLowStock(ctx context.Context, locationID string, page, pageSize int) ([]model.LocationStock, int, error) {
	return uc.repo.FindAll(ctx, &dto.StockFilters{
		LocationID: locationID,
		LowStock:   true,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// ApplyBatch runs each entry through the atomic primitives independently.
// One failing entry never aborts the rest; a large import should not be
// all-or-nothing across unrelated rows.
func (uc *stockUseCase) ApplyBatch(ctx context.Context, entries []dto.BatchEntry, userID string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(entries))

	for _, entry := range entries {
		var err error
		input := &dto.MutationInput{
			LocationID:    entry.LocationID,
			ItemID:        entry.ItemID,
			Quantity:      entry.Quantity,
			Notes:         entry.Notes,
			ReferenceType: "import",
			UserID:        userID,
		}

		switch entry.Type {
		case model.MovementTypeIn:
			_, err = uc.Credit(ctx, input)
		case model.MovementTypeOut:
			_, err = uc.Debit(ctx, input)
		case model.MovementTypeAdjustment:
			_, err = uc.Adjust(ctx, &dto.AdjustInput{
				LocationID:  entry.LocationID,
				ItemID:      entry.ItemID,
				NewQuantity: entry.Quantity,
				Reason:      entry.Notes,
				UserID:      userID,
			})
		default:
			err = fmt.Errorf("unknown batch entry type %q", entry.Type)
		}

		result := dto.BatchResult{Entry: entry, OK: err == nil}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	return results
}

func (uc *stockUseCase) resolveRefs(ctx context.Context, locationID, itemID string) (*model.InventoryItem, error) {
	loc, err := uc.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("location %s: %w", locationID, apperr.ErrNotFound)
	}

	item, err := uc.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, apperr.ErrNotFound)
	}
	return item, nil
}

func (uc *stockUseCase) buildMutation(input *dto.MutationInput, movementType string) *stock.Mutation {
	return &stock.Mutation{
		LocationID:    input.LocationID,
		ItemID:        input.ItemID,
		Quantity:      input.Quantity,
		MovementType:  movementType,
		Reference:     optional(input.Reference),
		ReferenceType: optional(input.ReferenceType),
		Notes:         input.Notes,
		CreatedBy:     optional(input.UserID),
	}
}

// afterMutation handles the side effects of a committed mutation: cache
// invalidation, the movement event, and a low-stock alert when the new
// balance sits at or below its threshold.
func (uc *stockUseCase) afterMutation(ctx context.Context, movement *model.StockMovement) {
	uc.cache.Invalidate(ctx, movement.LocationID, movement.ItemID)
	uc.events.StockMovementRecorded(ctx, movement)

	threshold, err := uc.lowStockThreshold(ctx, movement.LocationID, movement.ItemID)
	if err != nil {
		uc.logger.Warn("Failed to resolve low-stock threshold",
			zap.String("location_id", movement.LocationID),
			zap.String("item_id", movement.ItemID),
			zap.Error(err),
		)
		return
	}
	if threshold > 0 && movement.NewStock <= threshold {
		uc.events.LowStockDetected(ctx, movement.LocationID, movement.ItemID, movement.NewStock, threshold)
	}
}

func (uc *stockUseCase) lowStockThreshold(ctx context.Context, locationID, itemID string) (float64, error) {
	row, err := uc.repo.GetStockRow(ctx, locationID, itemID)
	if err != nil {
		return 0, err
	}
	if row != nil && row.MinStockLevel > 0 {
		return row.MinStockLevel, nil
	}

	item, err := uc.items.FindByID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, nil
	}
	return item.MinStockLevel, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
