package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/internal/apperr"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	itemrepo "github.com/baskoro/barpos-inventory-service/internal/item/repository"
	locrepo "github.com/baskoro/barpos-inventory-service/internal/location/repository"
	"github.com/baskoro/barpos-inventory-service/internal/model"
	"github.com/baskoro/barpos-inventory-service/internal/stock"
	"github.com/baskoro/barpos-inventory-service/internal/stock/dto"
	stockrepo "github.com/baskoro/barpos-inventory-service/internal/stock/repository"
	"github.com/baskoro/barpos-inventory-service/internal/testutil"
)

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu        sync.Mutex
	movements []*model.StockMovement
	lowStock  []lowStockCall
}

type lowStockCall struct {
	locationID string
	itemID     string
	current    float64
	threshold  float64
}

func (p *recordingPublisher) StockMovementRecorded(ctx context.Context, m *model.StockMovement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, m)
}

func (p *recordingPublisher) LowStockDetected(ctx context.Context, locationID, itemID string, current, threshold float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowStock = append(p.lowStock, lowStockCall{locationID, itemID, current, threshold})
}

func (p *recordingPublisher) Close() error { return nil }

func newUseCase(t *testing.T) (stock.UseCase, *recordingPublisher) {
	db := testutil.NewDB(t)
	testutil.SeedLocation(t, db, "bar-1", "Main Bar", model.LocationKindBar)
	testutil.SeedItem(t, db, "heineken", "Heineken", true, 5)

	publisher := &recordingPublisher{}
	uc := NewStockUseCase(
		stockrepo.NewPGRepository(db),
		itemrepo.NewPGRepository(db),
		locrepo.NewPGRepository(db),
		cache.NopStockCache{},
		publisher,
		zap.NewNop(),
	)
	return uc, publisher
}

func TestCreditRejectsNonPositiveQuantity(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Credit(context.Background(), &dto.MutationInput{LocationID: "bar-1", ItemID: "heineken", Quantity: 0})
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)

	_, err = uc.Debit(context.Background(), &dto.MutationInput{LocationID: "bar-1", ItemID: "heineken", Quantity: -2})
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}

func TestMutationRejectsUnknownReferences(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Credit(ctx, &dto.MutationInput{LocationID: "nowhere", ItemID: "heineken", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = uc.Credit(ctx, &dto.MutationInput{LocationID: "bar-1", ItemID: "nothing", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDebitEmitsLowStockAlert(t *testing.T) {
	uc, publisher := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Credit(ctx, &dto.MutationInput{LocationID: "bar-1", ItemID: "heineken", Quantity: 10})
	require.NoError(t, err)

	// Item threshold is 5; dropping to 4 crosses it.
	_, err = uc.Debit(ctx, &dto.MutationInput{LocationID: "bar-1", ItemID: "heineken", Quantity: 6})
	require.NoError(t, err)

	require.Len(t, publisher.lowStock, 1)
	alert := publisher.lowStock[0]
	assert.Equal(t, "bar-1", alert.locationID)
	assert.Equal(t, "heineken", alert.itemID)
	assert.Equal(t, float64(4), alert.current)
	assert.Equal(t, float64(5), alert.threshold)

	assert.Len(t, publisher.movements, 2)
}

func TestAdjustToAbsoluteValue(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	movement, err := uc.Adjust(ctx, &dto.AdjustInput{LocationID: "bar-1", ItemID: "heineken", NewQuantity: 25, Reason: "stocktake"})
	require.NoError(t, err)
	assert.Equal(t, float64(25), movement.NewStock)
	assert.Equal(t, model.MovementTypeAdjustment, movement.MovementType)

	qty, err := uc.GetStock(ctx, "bar-1", "heineken")
	require.NoError(t, err)
	assert.Equal(t, float64(25), qty)

	_, err = uc.Adjust(ctx, &dto.AdjustInput{LocationID: "bar-1", ItemID: "heineken", NewQuantity: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}

func TestApplyBatchReportsPerEntry(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	entries := []dto.BatchEntry{
		{LocationID: "bar-1", ItemID: "heineken", Type: model.MovementTypeIn, Quantity: 10},
		{LocationID: "bar-1", ItemID: "heineken", Type: model.MovementTypeOut, Quantity: 99},
		{LocationID: "bar-1", ItemID: "heineken", Type: "bogus", Quantity: 1},
		{LocationID: "bar-1", ItemID: "heineken", Type: model.MovementTypeOut, Quantity: 4},
	}

	results := uc.ApplyBatch(ctx, entries, "importer")
	require.Len(t, results, 4)

	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "insufficient stock")
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "unknown batch entry type")
	// A failure earlier in the batch must not stop later entries.
	assert.True(t, results[3].OK)

	qty, err := uc.GetStock(ctx, "bar-1", "heineken")
	require.NoError(t, err)
	assert.Equal(t, float64(6), qty)
}
