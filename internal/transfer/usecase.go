package transfer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
)

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

type UseCase interface {
	// Request moves stock out of the source immediately so in-flight
	// quantities are never sellable at both ends. Privileged callers
	// complete the transfer in the same unit of work.
	Request(ctx context.Context, input *dto.RequestInput, caller auth.Caller) (*model.Transfer, error)

	// Respond resolves a pending transfer: accept credits the
	// destination, reject returns the stock to the source.
	Respond(ctx context.Context, transferID, decision string, caller auth.Caller) (*model.Transfer, error)

	GetByID(ctx context.Context, id string) (*model.Transfer, error)
	List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)
}

// StockMutator is the slice of the stock repository the workflow needs:
// tx-scoped primitives it can combine with its own row writes.
type StockMutator interface {
	CreditTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, m *stock.Mutation) (*model.StockMovement, error)
}
