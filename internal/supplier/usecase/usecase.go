package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"go.uber.org/zap"
)

type supplierUseCase struct {
	repo      supplier.Repository
	orderRepo order.Repository
	tx        database.Transactor
	locker    lock.Locker
	logger    logger.ZapLogger
}

func NewSupplierUseCase(repo supplier.Repository, orderRepo order.Repository, tx database.Transactor, locker lock.Locker, log logger.ZapLogger) supplier.UseCase {
	return &supplierUseCase{
		repo:      repo,
		orderRepo: orderRepo,
		tx:        tx,
		locker:    locker,
		logger:    log,
	}
}

func (uc *supplierUseCase) AddSupplier(ctx context.Context, input *dto.AddSupplierInput) (*model.Supplier, error) {
	s, err := model.NewSupplier(input.Name, input.ContactEmail, input.Phone)
	if err != nil {
		return nil, err
	}
	s.ID = input.ID

	if s.ID != 0 {
		var release func()
		ctx, release, err = lock.Hold(ctx, uc.locker, lock.SupplierKey(s.ID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.repo.Save(ctx, s)
	})
	if err != nil {
		uc.logFailure("failed to save supplier", err, zap.Int64("supplier_id", input.ID))
		return nil, err
	}
	return s, nil
}

// GetSupplier fills Products from the lines of the supplier's orders.
func (uc *supplierUseCase) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logFailure("failed to get supplier", err, zap.Int64("supplier_id", id))
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFoundf("supplier %d not found", id)
	}

	orders, err := uc.orderRepo.FindBySupplier(ctx, id)
	if err != nil {
		uc.logFailure("failed to list supplier orders", err, zap.Int64("supplier_id", id))
		return nil, err
	}
	for _, o := range orders {
		for _, line := range o.Items {
			s.AddProduct(model.Product{
				ID:    line.ProductID,
				SKU:   line.ProductSKU,
				Name:  line.ProductName,
				Price: line.UnitPrice,
			})
		}
	}
	return s, nil
}

func (uc *supplierUseCase) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logFailure("failed to list suppliers", err)
		return nil, err
	}
	return suppliers, nil
}

// DeleteSupplier refuses while any order still references the supplier.
func (uc *supplierUseCase) DeleteSupplier(ctx context.Context, id int64) error {
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.SupplierKey(id))
	if err != nil {
		return err
	}
	defer release()

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return apperror.NotFoundf("supplier %d not found", id)
		}

		count, err := uc.orderRepo.CountBySupplier(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflictf("supplier %d still has %d orders", id, count)
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		uc.logFailure("failed to delete supplier", err, zap.Int64("supplier_id", id))
		return err
	}

	uc.logger.Info("supplier deleted", zap.Int64("supplier_id", id))
	return nil
}

func (uc *supplierUseCase) logFailure(msg string, err error, fields ...zap.Field) {
	if apperror.IsUnexpected(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
		return
	}
	uc.logger.Debug(msg, append(fields, zap.Error(err))...)
}
