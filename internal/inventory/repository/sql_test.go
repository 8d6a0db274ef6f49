package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	productRepo "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ inventory.Repository = (*SQLRepository)(nil)

func TestSQLRepository_SaveJoinAndMovements(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	products := productRepo.NewSQLRepository(db)
	repo := NewSQLRepository(db)

	p := &model.Product{Name: "Mouse", SKU: "SKU1"}
	require.NoError(t, products.Save(ctx, p))

	item := &model.InventoryItem{ProductID: p.ID, Quantity: 5, Location: "A1"}
	require.NoError(t, repo.Save(ctx, item))
	firstID := item.ID

	item.Quantity = 8
	require.NoError(t, repo.Save(ctx, item))
	assert.Equal(t, firstID, item.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 8, all[0].Quantity)
	assert.Equal(t, "Mouse", all[0].ProductName)
	assert.Equal(t, "SKU1", all[0].ProductSKU)

	require.NoError(t, repo.LogMovement(ctx, &model.StockMovement{ProductID: p.ID, QuantityChange: 3, QuantityBefore: 5, QuantityAfter: 8, Reason: model.ReasonManual}))
	movements, err := repo.ListMovements(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 8, movements[0].QuantityAfter)

	err = products.Delete(ctx, "SKU1")
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	require.NoError(t, repo.DeleteByProductID(ctx, p.ID))
	require.NoError(t, products.Delete(ctx, "SKU1"))
}

func TestSQLRepository_SaveUnknownProduct(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewSQLRepository(db)

	err := repo.Save(context.Background(), &model.InventoryItem{ProductID: 424242, Quantity: 1, Location: "A1"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
