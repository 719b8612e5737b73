package usecase

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	itemrepo "github.com/baskoro/barpos-inventory-service/internal/item/repository"
	locrepo "github.com/baskoro/barpos-inventory-service/internal/location/repository"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/order"
	"github.com/baskoro/barpos-inventory-service/internal/order/dto"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	stockrepo "github.com/baskoro/barpos-inventory-service/internal/stock/repository"
	"github.com/baskoro/barpos-inventory-service/internal/testutil"
)

type fixture struct {
	db        *sqlx.DB
	uc        order.UseCase
	stockRepo *stockrepo.PGRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	testutil.SeedLocation(t, db, "bar-1", "Main Bar", model.LocationKindBar)
	testutil.SeedItem(t, db, "gin", "Gin", true, 0)
	testutil.SeedItem(t, db, "tonic", "Tonic", true, 0)
	testutil.SeedItem(t, db, "ice", "Ice", false, 0)

	stockRepo := stockrepo.NewPGRepository(db)
	uc := NewOrderUseCase(
		db,
		stockRepo,
		itemrepo.NewPGRepository(db),
		locrepo.NewPGRepository(db),
		cache.NopStockCache{},
		events.NopPublisher{},
		zap.NewNop(),
	)
	return &fixture{db: db, uc: uc, stockRepo: stockRepo}
}

func (f *fixture) credit(t *testing.T, itemID string, qty float64) {
	t.Helper()
	_, err := f.stockRepo.Credit(context.Background(), &stock.Mutation{
		LocationID:   "bar-1",
		ItemID:       itemID,
		Quantity:     qty,
		MovementType: model.MovementTypeIn,
	})
	require.NoError(t, err)
}

func (f *fixture) stockOf(t *testing.T, itemID string) float64 {
	t.Helper()
	qty, err := f.stockRepo.GetStock(context.Background(), "bar-1", itemID)
	require.NoError(t, err)
	return qty
}

func TestDeductionRefusedWhenShort(t *testing.T) {
	f := newFixture(t)
	f.credit(t, "gin", 3)

	_, err := f.uc.ApplyCartDeduction(context.Background(), &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines:   []dto.CartLine{{ItemID: "gin", Quantity: 5}},
	})

	var insufficient *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(5), insufficient.Requested)
	assert.Equal(t, float64(3), insufficient.Available)

	// The refused order leaves stock untouched.
	assert.Equal(t, float64(3), f.stockOf(t, "gin"))
}

func TestDeductionIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.credit(t, "gin", 10)
	f.credit(t, "tonic", 1)

	_, err := f.uc.ApplyCartDeduction(context.Background(), &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines: []dto.CartLine{
			{ItemID: "gin", Quantity: 2},
			{ItemID: "tonic", Quantity: 4},
		},
	})
	require.Error(t, err)

	// The gin debit committed earlier in the transaction must roll back.
	assert.Equal(t, float64(10), f.stockOf(t, "gin"))
	assert.Equal(t, float64(1), f.stockOf(t, "tonic"))
}

func TestDeductionRetryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "gin", 10)
	f.credit(t, "tonic", 10)

	input := &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines: []dto.CartLine{
			{ItemID: "gin", Quantity: 2},
			{ItemID: "tonic", Quantity: 3},
		},
	}

	first, err := f.uc.ApplyCartDeduction(ctx, input)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := f.uc.ApplyCartDeduction(ctx, input)
	require.NoError(t, err)
	assert.Empty(t, second)

	assert.Equal(t, float64(8), f.stockOf(t, "gin"))
	assert.Equal(t, float64(7), f.stockOf(t, "tonic"))
}

func TestDeductionRetrySkipsAppliedLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "gin", 10)
	f.credit(t, "tonic", 10)

	// Simulate a half-applied order: the gin line already has a movement
	// referencing the order id.
	ref := "order-1"
	refType := "order"
	_, err := f.stockRepo.Debit(ctx, &stock.Mutation{
		LocationID:    "bar-1",
		ItemID:        "gin",
		Quantity:      2,
		MovementType:  model.MovementTypeOut,
		Reference:     &ref,
		ReferenceType: &refType,
	})
	require.NoError(t, err)

	movements, err := f.uc.ApplyCartDeduction(ctx, &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines: []dto.CartLine{
			{ItemID: "gin", Quantity: 2},
			{ItemID: "tonic", Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "tonic", movements[0].ItemID)

	assert.Equal(t, float64(8), f.stockOf(t, "gin"))
	assert.Equal(t, float64(7), f.stockOf(t, "tonic"))
}

func TestDuplicateCartLinesAreSummed(t *testing.T) {
	f := newFixture(t)
	f.credit(t, "gin", 3)

	// Two lines of 2 must be treated as one demand of 4.
	_, err := f.uc.ApplyCartDeduction(context.Background(), &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines: []dto.CartLine{
			{ItemID: "gin", Quantity: 2},
			{ItemID: "gin", Quantity: 2},
		},
	})

	var insufficient *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, float64(4), insufficient.Requested)
}

func TestUntrackedItemsAreSkipped(t *testing.T) {
	f := newFixture(t)
	f.credit(t, "gin", 10)

	movements, err := f.uc.ApplyCartDeduction(context.Background(), &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines: []dto.CartLine{
			{ItemID: "gin", Quantity: 2},
			{ItemID: "ice", Quantity: 50},
		},
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "gin", movements[0].ItemID)
}

func TestDeductionRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ApplyCartDeduction(ctx, &dto.DeductionInput{
		OrderID: "",
		BarID:   "bar-1",
		Lines:   []dto.CartLine{{ItemID: "gin", Quantity: 1}},
	})
	require.Error(t, err)

	_, err = f.uc.ApplyCartDeduction(ctx, &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines:   []dto.CartLine{{ItemID: "gin", Quantity: -1}},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)

	_, err = f.uc.ApplyCartDeduction(ctx, &dto.DeductionInput{
		OrderID: "order-1",
		BarID:   "bar-1",
		Lines:   []dto.CartLine{{ItemID: "nothing", Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestValidateCartIsAdvisory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.credit(t, "gin", 3)
	f.credit(t, "tonic", 10)

	result, err := f.uc.ValidateCart(ctx, "bar-1", []dto.CartLine{
		{ItemID: "gin", Quantity: 5},
		{ItemID: "tonic", Quantity: 2},
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.InsufficientLines, 1)
	assert.Equal(t, "gin", result.InsufficientLines[0].ItemID)
	assert.Equal(t, float64(3), result.InsufficientLines[0].Available)

	// Validation never writes.
	assert.Equal(t, float64(3), f.stockOf(t, "gin"))

	ok, err := f.uc.ValidateCart(ctx, "bar-1", []dto.CartLine{
		{ItemID: "gin", Quantity: 3},
	})
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.InsufficientLines)
}
