package usecase

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	itemrepo "github.com/baskoro/barpos-inventory-service/internal/item/repository"
	locrepo "github.com/baskoro/barpos-inventory-service/internal/location/repository"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	stockrepo "github.com/baskoro/barpos-inventory-service/internal/stock/repository"
	"github.com/baskoro/barpos-inventory-service/internal/testutil"
	"github.com/baskoro/barpos-inventory-service/internal/transfer"
	"github.com/baskoro/barpos-inventory-service/internal/transfer/dto"
	transferrepo "github.com/baskoro/barpos-inventory-service/internal/transfer/repository"
)

type fixture struct {
	db        *sqlx.DB
	uc        transfer.UseCase
	stockRepo *stockrepo.PGRepository
	repo      *transferrepo.PGRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	testutil.SeedLocation(t, db, "store", "Central Store", model.LocationKindStore)
	testutil.SeedLocation(t, db, "bar-1", "Main Bar", model.LocationKindBar)
	testutil.SeedLocation(t, db, "bar-2", "Terrace Bar", model.LocationKindBar)
	testutil.SeedItem(t, db, "heineken", "Heineken", true, 0)

	stockRepo := stockrepo.NewPGRepository(db)
	repo := transferrepo.NewPGRepository(db)
	uc := NewTransferUseCase(
		db,
		repo,
		stockRepo,
		itemrepo.NewPGRepository(db),
		locrepo.NewPGRepository(db),
		cache.NopStockCache{},
		events.NopPublisher{},
		zap.NewNop(),
	)
	return &fixture{db: db, uc: uc, stockRepo: stockRepo, repo: repo}
}

func (f *fixture) credit(t *testing.T, locationID string, qty float64) {
	t.Helper()
	_, err := f.stockRepo.Credit(context.Background(), &stock.Mutation{
		LocationID:   locationID,
		ItemID:       "heineken",
		Quantity:     qty,
		MovementType: model.MovementTypeIn,
	})
	require.NoError(t, err)
}

func (f *fixture) stockAt(t *testing.T, locationID string) float64 {
	t.Helper()
	qty, err := f.stockRepo.GetStock(context.Background(), locationID, "heineken")
	require.NoError(t, err)
	return qty
}

var cashier = auth.Caller{UserID: "cashier-1", Role: "cashier"}
var admin = auth.Caller{UserID: "admin-1", Role: "admin", CanCompleteTransfersImmediately: true}

func TestCashierRequestThenReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "bar-1", 10)

	// Requesting debits the source immediately and leaves the transfer pending.
	created, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-2",
		ItemID:           "heineken",
		Quantity:         10,
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusPending, created.Status)
	assert.Equal(t, "cashier-1", created.RequestedBy)
	assert.Nil(t, created.ApprovedBy)

	assert.Equal(t, float64(0), f.stockAt(t, "bar-1"))
	assert.Equal(t, float64(0), f.stockAt(t, "bar-2"))

	// Rejection returns the stock to the sender.
	rejected, err := f.uc.Respond(ctx, created.ID, transfer.DecisionReject, auth.Caller{UserID: "bar2-op"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ApprovedBy)
	assert.Equal(t, "bar2-op", *rejected.ApprovedBy)
	require.NotNil(t, rejected.CompletedAt)

	assert.Equal(t, float64(10), f.stockAt(t, "bar-1"))
	assert.Equal(t, float64(0), f.stockAt(t, "bar-2"))
}

func TestAcceptCreditsDestination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "bar-1", 10)

	created, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-2",
		ItemID:           "heineken",
		Quantity:         4,
	}, cashier)
	require.NoError(t, err)

	accepted, err := f.uc.Respond(ctx, created.ID, transfer.DecisionAccept, auth.Caller{UserID: "bar2-op"})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusAccepted, accepted.Status)

	assert.Equal(t, float64(6), f.stockAt(t, "bar-1"))
	assert.Equal(t, float64(4), f.stockAt(t, "bar-2"))
}

func TestRespondIsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "bar-1", 10)

	created, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-2",
		ItemID:           "heineken",
		Quantity:         10,
	}, cashier)
	require.NoError(t, err)

	_, err = f.uc.Respond(ctx, created.ID, transfer.DecisionReject, auth.Caller{UserID: "bar2-op"})
	require.NoError(t, err)

	// A second respond must fail and must not credit again.
	_, err = f.uc.Respond(ctx, created.ID, transfer.DecisionReject, auth.Caller{UserID: "bar2-op"})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidTransferState(err))

	_, err = f.uc.Respond(ctx, created.ID, transfer.DecisionAccept, auth.Caller{UserID: "bar2-op"})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidTransferState(err))

	assert.Equal(t, float64(10), f.stockAt(t, "bar-1"))
	assert.Equal(t, float64(0), f.stockAt(t, "bar-2"))
}

func TestPrivilegedTransferCompletesImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "store", 50)

	created, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "store",
		DestLocationID:   "bar-1",
		ItemID:           "heineken",
		Quantity:         20,
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, model.TransferStatusCompleted, created.Status)
	require.NotNil(t, created.ApprovedBy)
	assert.Equal(t, "admin-1", *created.ApprovedBy)
	require.NotNil(t, created.CompletedAt)

	assert.Equal(t, float64(30), f.stockAt(t, "store"))
	assert.Equal(t, float64(20), f.stockAt(t, "bar-1"))

	// Conservation across the pair.
	assert.Equal(t, float64(50), f.stockAt(t, "store")+f.stockAt(t, "bar-1"))
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-1",
		ItemID:           "heineken",
		Quantity:         1,
	}, cashier)
	assert.True(t, apperr.IsInvalidTransferState(err))

	_, err = f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-2",
		ItemID:           "heineken",
		Quantity:         0,
	}, cashier)
	assert.True(t, apperr.IsInvalidTransferState(err))

	_, err = f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "nowhere",
		ItemID:           "heineken",
		Quantity:         1,
	}, cashier)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInsufficientRequestCreatesNoTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "bar-1", 3)

	_, err := f.uc.Request(ctx, &dto.RequestInput{
		SourceLocationID: "bar-1",
		DestLocationID:   "bar-2",
		ItemID:           "heineken",
		Quantity:         5,
	}, cashier)

	var insufficient *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(3), insufficient.Available)

	// The failed debit rolled back everything: no transfer row, stock intact.
	_, total, err := f.repo.FindAll(ctx, &dto.TransferFilters{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, float64(3), f.stockAt(t, "bar-1"))
}
