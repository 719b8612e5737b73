package transfer

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
)

type Repository interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, t *model.Transfer) error
	GetByID(ctx context.Context, id string) (*model.Transfer, error)
	FindAll(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)

	// MarkRespondedTx flips a pending transfer to its terminal status.
	// Returns false when the transfer was not pending; callers treat that
	// as InvalidTransferState, which also makes a repeated respond a
	// no-op instead of a second credit.
	MarkRespondedTx(ctx context.Context, tx *sqlx.Tx, id, status, approvedBy string, at time.Time) (bool, error)
}
