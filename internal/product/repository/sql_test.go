package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ product.Repository = (*SQLRepository)(nil)

func TestSQLRepository_SaveUpsertsBySKU(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewSQLRepository(db)

	p := &model.Product{Name: "Mouse", SKU: "SKU1", Category: "Peripherals", Price: decimal.RequireFromString("10.50")}
	require.NoError(t, repo.Save(ctx, p))
	require.NotZero(t, p.ID)

	updated := &model.Product{Name: "Wireless Mouse", SKU: "SKU1", Price: decimal.RequireFromString("12.00")}
	require.NoError(t, repo.Save(ctx, updated))
	assert.Equal(t, p.ID, updated.ID)

	got, err := repo.FindBySKU(ctx, "SKU1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Wireless Mouse", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(12)))

	lower, err := repo.FindBySKU(ctx, "sku1")
	require.NoError(t, err)
	assert.Nil(t, lower)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, "SKU1"))
	gone, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLRepository_ConcurrentInsertOfSameSKU(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewSQLRepository(db)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Save(ctx, &model.Product{Name: "Mouse", SKU: "RACE1", Price: decimal.NewFromInt(1)})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, apperror.ErrConflict), err.Error())
		}
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
