package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	FindByProductID(ctx context.Context, productID int64) (*model.InventoryItem, error)
	// FindAll joins product name and SKU for reporting.
	FindAll(ctx context.Context) ([]model.InventoryItem, error)

	// Save upserts by product id.
	Save(ctx context.Context, item *model.InventoryItem) error
	DeleteByProductID(ctx context.Context, productID int64) error

	// Movements / Audit
	LogMovement(ctx context.Context, m *model.StockMovement) error
	ListMovements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error)
}
