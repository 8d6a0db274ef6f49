package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invDTO "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo          product.Repository
	inventoryRepo inventory.Repository
	ledger        inventory.UseCase
	tx            database.Transactor
	locker        lock.Locker
	logger        logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	inventoryRepo inventory.Repository,
	ledger inventory.UseCase,
	tx database.Transactor,
	locker lock.Locker,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:          repo,
		inventoryRepo: inventoryRepo,
		ledger:        ledger,
		tx:            tx,
		locker:        locker,
		logger:        log,
	}
}

func (uc *productUseCase) AddProduct(ctx context.Context, input *dto.AddProductInput) (*model.Product, error) {
	p, err := newProduct(&input.SaveProductInput)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	ctx, release, err := lock.Hold(ctx, uc.locker, lock.ProductKey(p.SKU))
	if err != nil {
		return nil, err
	}
	defer release()

	// Take the stock lock of an existing product before the transaction starts.
	existing, err := uc.repo.FindBySKU(ctx, p.SKU)
	if err != nil {
		uc.logFailure("failed to find product", err, zap.String("sku", p.SKU))
		return nil, err
	}
	if existing != nil {
		var releaseStock func()
		ctx, releaseStock, err = lock.Hold(ctx, uc.locker, lock.InventoryKey(existing.ID))
		if err != nil {
			return nil, err
		}
		defer releaseStock()
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.repo.Save(ctx, p); err != nil {
			return err
		}
		_, err := uc.ledger.SetAbsolute(ctx, &invDTO.SetStockInput{
			ProductID: p.ID,
			Quantity:  input.Quantity,
			Location:  input.Location,
		})
		return err
	})
	if err != nil {
		uc.logFailure("failed to add product", err, zap.String("sku", p.SKU))
		return nil, err
	}

	uc.logger.Info("product added", zap.Int64("product_id", p.ID), zap.String("sku", p.SKU), zap.Int("quantity", input.Quantity))
	return p, nil
}

func (uc *productUseCase) SaveProduct(ctx context.Context, input *dto.SaveProductInput) (*model.Product, error) {
	p, err := newProduct(input)
	if err != nil {
		return nil, err
	}

	ctx, release, err := lock.Hold(ctx, uc.locker, lock.ProductKey(p.SKU))
	if err != nil {
		return nil, err
	}
	defer release()

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.repo.Save(ctx, p)
	})
	if err != nil {
		uc.logFailure("failed to save product", err, zap.String("sku", p.SKU))
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, sku string) (*model.Product, error) {
	sku = model.NormalizeSKU(sku)
	p, err := uc.repo.FindBySKU(ctx, sku)
	if err != nil {
		uc.logFailure("failed to get product", err, zap.String("sku", sku))
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFoundf("product with SKU %q not found", sku)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logFailure("failed to list products", err)
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes the stock row and then the product. Orders that reference
// the product keep their line snapshot.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logFailure("failed to find product", err, zap.Int64("product_id", id))
		return err
	}
	if p == nil {
		return apperror.NotFoundf("product %d not found", id)
	}

	ctx, release, err := lock.Hold(ctx, uc.locker, lock.ProductKey(p.SKU))
	if err != nil {
		return err
	}
	defer release()
	ctx, releaseStock, err := lock.Hold(ctx, uc.locker, lock.InventoryKey(id))
	if err != nil {
		return err
	}
	defer releaseStock()

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFoundf("product %d not found", id)
		}
		if err := uc.inventoryRepo.DeleteByProductID(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, current.SKU)
	})
	if err != nil {
		uc.logFailure("failed to delete product", err, zap.Int64("product_id", id))
		return err
	}

	uc.logger.Info("product deleted", zap.Int64("product_id", id), zap.String("sku", p.SKU))
	return nil
}

func newProduct(input *dto.SaveProductInput) (*model.Product, error) {
	return model.NewProduct(input.Name, input.SKU, input.Category, input.Price, input.Description)
}

func (uc *productUseCase) logFailure(msg string, err error, fields ...zap.Field) {
	if apperror.IsUnexpected(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
		return
	}
	uc.logger.Debug(msg, append(fields, zap.Error(err))...)
}
