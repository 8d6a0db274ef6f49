package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/memstore"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, wait time.Duration) (*memstore.Store, *lock.LocalLocker, inventory.UseCase) {
	t.Helper()
	store := memstore.New()
	locker := lock.NewLocalLocker(wait)
	uc := NewInventoryUseCase(store.Inventory(), store.Products(), store, locker, logger.NewNop())
	return store, locker, uc
}

func seedProduct(t *testing.T, store *memstore.Store, name, sku string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, SKU: sku}
	require.NoError(t, store.Products().Save(context.Background(), p))
	return p
}

func TestAdjust_CreatesItemLazily(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	p := seedProduct(t, store, "Mouse", "SKU1")

	item, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{ProductID: p.ID, Delta: 4, FallbackLocation: "Dock"})
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, "Dock", item.Location)

	item, err = uc.Adjust(context.Background(), &dto.AdjustStockInput{ProductID: p.ID, Delta: 1, FallbackLocation: "Elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, "Dock", item.Location)

	movements, err := uc.ListMovements(context.Background(), &dto.MovementFilters{SKU: "SKU1"})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, 4, movements[0].QuantityBefore)
	assert.Equal(t, 5, movements[0].QuantityAfter)
	assert.Equal(t, model.ReasonManual, movements[0].Reason)
}

func TestUpdateStock_BelowZeroLeavesStock(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	seedProduct(t, store, "Mouse", "SKU1")
	ctx := context.Background()

	_, err := uc.UpdateStock(ctx, "SKU1", 5)
	require.NoError(t, err)

	_, err = uc.UpdateStock(ctx, "SKU1", -10)
	assert.True(t, errors.Is(err, apperror.ErrInvariantViolation))
	assert.Equal(t, "stock cannot go below zero", err.Error())

	items, err := uc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	movements, err := uc.ListMovements(ctx, &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestStockAboveColumnRangeIsInvalid(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	p := seedProduct(t, store, "Mouse", "SKU1")
	ctx := context.Background()

	_, err := uc.UpdateStock(ctx, "SKU1", 3_000_000_000)
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))

	_, err = uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: p.ID, Quantity: model.MaxQuantity + 1})
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))

	items, err := uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	movements, err := uc.ListMovements(ctx, &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestUpdateStock_UnknownSKU(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	seedProduct(t, store, "Mouse", "SKU1")

	_, err := uc.UpdateStock(context.Background(), "sku1", 1)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	item, err := uc.UpdateStock(context.Background(), " SKU1 ", 1)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLocation, item.Location)
}

func TestSetAbsolute(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	p := seedProduct(t, store, "Mouse", "SKU1")
	ctx := context.Background()

	_, err := uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: p.ID, Quantity: -1})
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))

	item, err := uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: p.ID, Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
	assert.Equal(t, model.DefaultLocation, item.Location)

	item, err = uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: p.ID, Quantity: 2, Location: "B2"})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "B2", item.Location)

	movements, err := uc.ListMovements(ctx, &dto.MovementFilters{SKU: "SKU1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -5, movements[0].QuantityChange)
}

func TestGetByProduct_DefaultsToEmpty(t *testing.T) {
	_, _, uc := setup(t, time.Second)

	item, err := uc.GetByProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, model.DefaultLocation, item.Location)
}

func TestAdjust_ConcurrentUpdatesAreNotLost(t *testing.T) {
	store, _, uc := setup(t, 5*time.Second)
	p := seedProduct(t, store, "Mouse", "SKU1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Adjust(ctx, &dto.AdjustStockInput{ProductID: p.ID, Delta: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := uc.GetByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
}

func TestAdjust_BusyKeyIsConflict(t *testing.T) {
	store, locker, uc := setup(t, 20*time.Millisecond)
	p := seedProduct(t, store, "Mouse", "SKU1")

	release, err := locker.Acquire(context.Background(), lock.InventoryKey(p.ID))
	require.NoError(t, err)
	defer release()

	_, err = uc.Adjust(context.Background(), &dto.AdjustStockInput{ProductID: p.ID, Delta: 1})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestGenerateReport(t *testing.T) {
	store, _, uc := setup(t, time.Second)
	ctx := context.Background()
	mouse := seedProduct(t, store, "Mouse", "SKU1")
	keyboard := seedProduct(t, store, "Keyboard", "SKU2")

	_, err := uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: mouse.ID, Quantity: 10, Location: "A1"})
	require.NoError(t, err)
	_, err = uc.SetAbsolute(ctx, &dto.SetStockInput{ProductID: keyboard.ID, Quantity: 0, Location: "B2"})
	require.NoError(t, err)

	text, err := uc.GenerateReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Product: Mouse | SKU: SKU1 | Stock: 10 | Location: A1\n")
	assert.Contains(t, text, "Product: Keyboard | SKU: SKU2 | Stock: 0 | Location: B2\n")
	assert.True(t, strings.HasSuffix(text, "Total Items: 2"))
}
