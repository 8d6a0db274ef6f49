package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/report"
	"go.uber.org/zap"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

type inventoryUseCase struct {
	repo        inventory.Repository
	productRepo product.Repository
	tx          database.Transactor
	locker      lock.Locker
	logger      logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, productRepo product.Repository, tx database.Transactor, locker lock.Locker, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:        repo,
		productRepo: productRepo,
		tx:          tx,
		locker:      locker,
		logger:      log,
	}
}

// GetByProduct returns a zero quantity item at the default location when the
// product has never had stock.
func (uc *inventoryUseCase) GetByProduct(ctx context.Context, productID int64) (*model.InventoryItem, error) {
	item, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		uc.logFailure("failed to get inventory item", err, zap.Int64("product_id", productID))
		return nil, err
	}
	if item == nil {
		return &model.InventoryItem{ProductID: productID, Location: model.DefaultLocation}, nil
	}
	return item, nil
}

func (uc *inventoryUseCase) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logFailure("failed to list inventory items", err)
		return nil, err
	}
	return items, nil
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error) {
	// 0. Acquire Lock
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.InventoryKey(input.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	reason := input.Reason
	if reason == "" {
		reason = model.ReasonManual
	}

	var item *model.InventoryItem
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Get current inventory
		current, err := uc.repo.FindByProductID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			current, err = model.NewInventoryItem(input.ProductID, 0, input.FallbackLocation)
			if err != nil {
				return err
			}
		}

		// 2. Apply delta, rejected as a whole if stock would go negative
		quantityBefore := current.Quantity
		if err := current.UpdateStock(input.Delta); err != nil {
			return err
		}

		// 3. Persist with movement log
		if err := uc.repo.Save(ctx, current); err != nil {
			return err
		}
		item = current
		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ProductID:      input.ProductID,
			QuantityChange: input.Delta,
			QuantityBefore: quantityBefore,
			QuantityAfter:  current.Quantity,
			Reason:         reason,
			Reference:      input.Reference,
		})
	})
	if err != nil {
		uc.logFailure("failed to adjust stock", err, zap.Int64("product_id", input.ProductID), zap.Int("delta", input.Delta))
		return nil, err
	}
	return item, nil
}

func (uc *inventoryUseCase) SetAbsolute(ctx context.Context, input *dto.SetStockInput) (*model.InventoryItem, error) {
	if err := model.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	ctx, release, err := lock.Hold(ctx, uc.locker, lock.InventoryKey(input.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	reason := input.Reason
	if reason == "" {
		reason = model.ReasonStockSet
	}

	var item *model.InventoryItem
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.FindByProductID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if current == nil {
			current, err = model.NewInventoryItem(input.ProductID, 0, input.Location)
			if err != nil {
				return err
			}
		} else if input.Location != "" {
			current.Location = input.Location
		}

		quantityBefore := current.Quantity
		current.Quantity = input.Quantity
		if err := uc.repo.Save(ctx, current); err != nil {
			return err
		}
		item = current
		return uc.repo.LogMovement(ctx, &model.StockMovement{
			ProductID:      input.ProductID,
			QuantityChange: input.Quantity - quantityBefore,
			QuantityBefore: quantityBefore,
			QuantityAfter:  input.Quantity,
			Reason:         reason,
		})
	})
	if err != nil {
		uc.logFailure("failed to set stock", err, zap.Int64("product_id", input.ProductID), zap.Int("quantity", input.Quantity))
		return nil, err
	}
	return item, nil
}

func (uc *inventoryUseCase) UpdateStock(ctx context.Context, sku string, delta int) (*model.InventoryItem, error) {
	return uc.updateStock(ctx, sku, delta, model.ReasonManual)
}

// UpdateStockFromCount applies a physical stock count reported by the warehouse.
func (uc *inventoryUseCase) UpdateStockFromCount(ctx context.Context, sku string, delta int) (*model.InventoryItem, error) {
	return uc.updateStock(ctx, sku, delta, model.ReasonStockCount)
}

func (uc *inventoryUseCase) updateStock(ctx context.Context, sku string, delta int, reason string) (*model.InventoryItem, error) {
	sku = model.NormalizeSKU(sku)

	// The product lock keeps the product from being deleted under us.
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.ProductKey(sku))
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := uc.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		uc.logFailure("failed to find product", err, zap.String("sku", sku))
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFoundf("product with SKU %q not found", sku)
	}

	return uc.Adjust(ctx, &dto.AdjustStockInput{
		ProductID:        p.ID,
		Delta:            delta,
		FallbackLocation: model.DefaultLocation,
		Reason:           reason,
		Reference:        "sku:" + sku,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}

	var productID int64
	if sku := model.NormalizeSKU(filters.SKU); sku != "" {
		p, err := uc.productRepo.FindBySKU(ctx, sku)
		if err != nil {
			uc.logFailure("failed to find product", err, zap.String("sku", sku))
			return nil, err
		}
		if p == nil {
			return nil, apperror.NotFoundf("product with SKU %q not found", sku)
		}
		productID = p.ID
	}

	movements, err := uc.repo.ListMovements(ctx, productID, limit)
	if err != nil {
		uc.logFailure("failed to list stock movements", err, zap.Int64("product_id", productID))
		return nil, err
	}
	return movements, nil
}

func (uc *inventoryUseCase) GenerateReport(ctx context.Context) (string, error) {
	items, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logFailure("failed to load inventory for report", err)
		return "", err
	}
	return report.Build(items), nil
}

func (uc *inventoryUseCase) logFailure(msg string, err error, fields ...zap.Field) {
	if apperror.IsUnexpected(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
		return
	}
	uc.logger.Debug(msg, append(fields, zap.Error(err))...)
}
