package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/database"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/transfer"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
)

const referenceTypeTransfer = "transfer"

type transferUseCase struct {
	db        *sqlx.DB
	repo      transfer.Repository
	mutator   transfer.StockMutator
	items     stock.ItemReader
	locations stock.LocationReader
	cache     cache.StockCache
	events    events.Publisher
	logger    *zap.Logger
}

func NewTransferUseCase(
	db *sqlx.DB,
	repo transfer.Repository,
	mutator transfer.StockMutator,
	items stock.ItemReader,
	locations stock.LocationReader,
	stockCache cache.StockCache,
	publisher events.Publisher,
	logger *zap.Logger,
) transfer.UseCase {
	return &transferUseCase{
		db:        db,
		repo:      repo,
		mutator:   mutator,
		items:     items,
		locations: locations,
		cache:     stockCache,
		events:    publisher,
		logger:    logger,
	}
}

func (uc *transferUseCase) Request(ctx context.Context, input *dto.RequestInput, caller auth.Caller) (*model.Transfer, error) {
	if input.SourceLocationID == input.DestLocationID {
		return nil, &apperr.InvalidTransferStateError{Reason: "source and destination must differ"}
	}
	if input.Quantity <= 0 {
		return nil, &apperr.InvalidTransferStateError{Reason: "quantity must be positive"}
	}
	if err := uc.resolveRefs(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transferID := uuid.New().String()
	ref := transferID
	refType := referenceTypeTransfer
	actor := optional(caller.UserID)

	t := &model.Transfer{
		ID:               transferID,
		SourceLocationID: input.SourceLocationID,
		DestLocationID:   input.DestLocationID,
		ItemID:           input.ItemID,
		Quantity:         input.Quantity,
		Status:           model.TransferStatusPending,
		RequestedBy:      caller.UserID,
		Notes:            input.Notes,
		CreatedAt:        now,
	}

	var movements []*model.StockMovement

	err := database.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		// Stock leaves the source immediately so an in-flight transfer
		// is never counted as available at both locations.
		out, err := uc.mutator.DebitTx(ctx, tx, &stock.Mutation{
			LocationID:    input.SourceLocationID,
			ItemID:        input.ItemID,
			Quantity:      input.Quantity,
			MovementType:  model.MovementTypeTransferOut,
			Reference:     &ref,
			ReferenceType: &refType,
			Notes:         input.Notes,
			CreatedBy:     actor,
		})
		if err != nil {
			return err
		}
		movements = append(movements, out)

		if caller.CanCompleteTransfersImmediately {
			in, err := uc.mutator.CreditTx(ctx, tx, &stock.Mutation{
				LocationID:    input.DestLocationID,
				ItemID:        input.ItemID,
				Quantity:      input.Quantity,
				MovementType:  model.MovementTypeTransferIn,
				Reference:     &ref,
				ReferenceType: &refType,
				Notes:         input.Notes,
				CreatedBy:     actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, in)

			t.Status = model.TransferStatusCompleted
			t.ApprovedBy = optional(caller.UserID)
			t.CompletedAt = &now
		}

		return uc.repo.InsertTx(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, movements)
	uc.logger.Info("Transfer requested",
		zap.String("transfer_id", t.ID),
		zap.String("status", t.Status),
		zap.String("source", t.SourceLocationID),
		zap.String("destination", t.DestLocationID),
	)
	return t, nil
}

func (uc *transferUseCase) Respond(ctx context.Context, transferID, decision string, caller auth.Caller) (*model.Transfer, error) {
	if decision != transfer.DecisionAccept && decision != transfer.DecisionReject {
		return nil, &apperr.InvalidTransferStateError{TransferID: transferID, Reason: fmt.Sprintf("unknown decision %q", decision)}
	}

	t, err := uc.repo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transfer %s: %w", transferID, apperr.ErrNotFound)
	}

	now := time.Now().UTC()
	status := model.TransferStatusAccepted
	if decision == transfer.DecisionReject {
		status = model.TransferStatusRejected
	}

	ref := t.ID
	refType := referenceTypeTransfer
	var movements []*model.StockMovement

	err = database.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		// The status flip and the credit share one transaction; a crash
		// between them can never leave stock in limbo relative to the
		// transfer row. The pending guard also makes a second respond
		// fail instead of crediting twice.
		ok, err := uc.repo.MarkRespondedTx(ctx, tx, t.ID, status, caller.UserID, now)
		if err != nil {
			return err
		}
		if !ok {
			return &apperr.InvalidTransferStateError{TransferID: t.ID, Reason: "transfer is not pending"}
		}

		creditLocation := t.DestLocationID
		notes := t.Notes
		if status == model.TransferStatusRejected {
			// Rejection returns the already-debited stock to the sender.
			creditLocation = t.SourceLocationID
			notes = "transfer rejected"
		}

		in, err := uc.mutator.CreditTx(ctx, tx, &stock.Mutation{
			LocationID:    creditLocation,
			ItemID:        t.ItemID,
			Quantity:      t.Quantity,
			MovementType:  model.MovementTypeTransferIn,
			Reference:     &ref,
			ReferenceType: &refType,
			Notes:         notes,
			CreatedBy:     optional(caller.UserID),
		})
		if err != nil {
			return err
		}
		movements = append(movements, in)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.Status = status
	t.ApprovedBy = optional(caller.UserID)
	t.CompletedAt = &now

	uc.afterCommit(ctx, movements)
	uc.logger.Info("Transfer resolved",
		zap.String("transfer_id", t.ID),
		zap.String("status", t.Status),
		zap.String("responded_by", caller.UserID),
	)
	return t, nil
}

func (uc *transferUseCase) GetByID(ctx context.Context, id string) (*model.Transfer, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transfer %s: %w", id, apperr.ErrNotFound)
	}
	return t, nil
}

func (uc *transferUseCase) List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *transferUseCase) resolveRefs(ctx context.Context, input *dto.RequestInput) error {
	for _, locationID := range []string{input.SourceLocationID, input.DestLocationID} {
		loc, err := uc.locations.FindByID(ctx, locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("location %s: %w", locationID, apperr.ErrNotFound)
		}
	}

	item, err := uc.items.FindByID(ctx, input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", input.ItemID, apperr.ErrNotFound)
	}
	return nil
}

func (uc *transferUseCase) afterCommit(ctx context.Context, movements []*model.StockMovement) {
	for _, m := range movements {
		uc.cache.Invalidate(ctx, m.LocationID, m.ItemID)
		uc.events.StockMovementRecorded(ctx, m)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
