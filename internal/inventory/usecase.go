package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// UseCase is the stock ledger: every change to an InventoryItem quantity goes through it.
type UseCase interface {
	GetByProduct(ctx context.Context, productID int64) (*model.InventoryItem, error)
	ListItems(ctx context.Context) ([]model.InventoryItem, error)

	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error)
	SetAbsolute(ctx context.Context, input *dto.SetStockInput) (*model.InventoryItem, error)
	// UpdateStock is a manual correction addressed by SKU.
	UpdateStock(ctx context.Context, sku string, delta int) (*model.InventoryItem, error)
	UpdateStockFromCount(ctx context.Context, sku string, delta int) (*model.InventoryItem, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)
	GenerateReport(ctx context.Context) (string, error)
}
