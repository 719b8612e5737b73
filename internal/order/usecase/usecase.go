package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/database"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/order"
	"github.com/baskoro/barpos-inventory-service/internal/order/dto"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
)

const referenceTypeOrder = "order"

type orderUseCase struct {
	db        *sqlx.DB
	stocks    order.StockAccess
	items     stock.ItemReader
	locations stock.LocationReader
	cache     cache.StockCache
	events    events.Publisher
	logger    *zap.Logger
}

func NewOrderUseCase(
	db *sqlx.DB,
	stocks order.StockAccess,
	items stock.ItemReader,
	locations stock.LocationReader,
	stockCache cache.StockCache,
	publisher events.Publisher,
	logger *zap.Logger,
) order.UseCase {
	return &orderUseCase{
		db:        db,
		stocks:    stocks,
		items:     items,
		locations: locations,
		cache:     stockCache,
		events:    publisher,
		logger:    logger,
	}
}

// trackedLine is a cart line after aggregation: duplicate lines for the
// same item are summed, untracked items dropped.
type trackedLine struct {
	itemID   string
	quantity float64
}

func (uc *orderUseCase) ValidateCart(ctx context.Context, barID string, lines []dto.CartLine) (*dto.ValidationResult, error) {
	if err := uc.checkLocation(ctx, barID); err != nil {
		return nil, err
	}

	tracked, err := uc.aggregateTracked(ctx, lines)
	if err != nil {
		return nil, err
	}

	result := &dto.ValidationResult{Valid: true}
	for _, line := range tracked {
		available, err := uc.stocks.GetStock(ctx, barID, line.itemID)
		if err != nil {
			return nil, err
		}
		if line.quantity > available {
			result.Valid = false
			result.InsufficientLines = append(result.InsufficientLines, dto.InsufficientLine{
				ItemID:    line.itemID,
				Requested: line.quantity,
				Available: available,
			})
		}
	}
	return result, nil
}

func (uc *orderUseCase) ApplyCartDeduction(ctx context.Context, input *dto.DeductionInput) ([]*model.StockMovement, error) {
	if input.OrderID == "" {
		return nil, errors.New("order id is required")
	}
	if err := uc.checkLocation(ctx, input.BarID); err != nil {
		return nil, err
	}

	tracked, err := uc.aggregateTracked(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	ref := input.OrderID
	refType := referenceTypeOrder
	actor := optional(input.UserID)

	var movements []*model.StockMovement

	err = database.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		for _, line := range tracked {
			// Retried order creation must not deduct twice: a movement
			// already referencing this order id covers the line.
			applied, err := uc.stocks.HasMovementForReferenceTx(ctx, tx, input.OrderID, line.itemID)
			if err != nil {
				return err
			}
			if applied {
				continue
			}

			movement, err := uc.stocks.DebitTx(ctx, tx, &stock.Mutation{
				LocationID:    input.BarID,
				ItemID:        line.itemID,
				Quantity:      line.quantity,
				MovementType:  model.MovementTypeOut,
				Reference:     &ref,
				ReferenceType: &refType,
				Notes:         "order sale",
				CreatedBy:     actor,
			})
			if err != nil {
				// Rolling back undoes every earlier debit of this
				// order; the caller must treat the order as not placed.
				return err
			}
			movements = append(movements, movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, movements)
	uc.logger.Info("Order deduction applied",
		zap.String("order_id", input.OrderID),
		zap.String("bar_id", input.BarID),
		zap.Int("lines", len(movements)),
	)
	return movements, nil
}

func (uc *orderUseCase) checkLocation(ctx context.Context, barID string) error {
	loc, err := uc.locations.FindByID(ctx, barID)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("location %s: %w", barID, apperr.ErrNotFound)
	}
	return nil
}

func (uc *orderUseCase) aggregateTracked(ctx context.Context, lines []dto.CartLine) ([]trackedLine, error) {
	index := map[string]int{}
	var aggregated []trackedLine

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.ErrInvalidQuantity
		}

		item, err := uc.items.FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("item %s: %w", line.ItemID, apperr.ErrNotFound)
		}
		if !item.TrackStock {
			continue
		}

		if i, ok := index[line.ItemID]; ok {
			aggregated[i].quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(aggregated)
		aggregated = append(aggregated, trackedLine{itemID: line.ItemID, quantity: line.Quantity})
	}
	return aggregated, nil
}

func (uc *orderUseCase) afterCommit(ctx context.Context, movements []*model.StockMovement) {
	for _, m := range movements {
		uc.cache.Invalidate(ctx, m.LocationID, m.ItemID)
		uc.events.StockMovementRecorded(ctx, m)

		threshold, err := uc.lowStockThreshold(ctx, m.LocationID, m.ItemID)
		if err != nil {
			uc.logger.Warn("Failed to resolve low-stock threshold",
				zap.String("location_id", m.LocationID),
				zap.String("item_id", m.ItemID),
				zap.Error(err),
			)
			continue
		}
		if threshold > 0 && m.NewStock <= threshold {
			uc.events.LowStockDetected(ctx, m.LocationID, m.ItemID, m.NewStock, threshold)
		}
	}
}

func (uc *orderUseCase) lowStockThreshold(ctx context.Context, locationID, itemID string) (float64, error) {
	row, err := uc.stocks.GetStockRow(ctx, locationID, itemID)
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
