package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invDTO "github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo         order.Repository
	supplierRepo supplier.Repository
	productRepo  product.Repository
	ledger       inventory.UseCase
	tx           database.Transactor
	locker       lock.Locker
	logger       logger.ZapLogger
	now          func() time.Time
}

func NewOrderUseCase(
	repo order.Repository,
	supplierRepo supplier.Repository,
	productRepo product.Repository,
	ledger inventory.UseCase,
	tx database.Transactor,
	locker lock.Locker,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:         repo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		ledger:       ledger,
		tx:           tx,
		locker:       locker,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder records a pending order with one line. Warehouse stock is not touched.
func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	sku := model.NormalizeSKU(input.ProductSKU)

	// Blocks DeleteSupplier until the order is stored.
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.SupplierKey(input.SupplierID))
	if err != nil {
		return nil, err
	}
	defer release()

	var o *model.Order
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := uc.supplierRepo.FindByID(ctx, input.SupplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return apperror.NotFoundf("supplier %d not found", input.SupplierID)
		}

		p, err := uc.productRepo.FindBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFoundf("product with SKU %q not found", sku)
		}

		o = model.NewOrder(s.ID, uc.now())
		if err := o.AddItem(model.NewOrderItem(p, input.Quantity)); err != nil {
			return err
		}
		return uc.repo.Save(ctx, o)
	})
	if err != nil {
		uc.logFailure("failed to place order", err, zap.Int64("supplier_id", input.SupplierID), zap.String("sku", sku))
		return nil, err
	}

	uc.logger.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("supplier_id", o.SupplierID),
		zap.String("sku", sku),
		zap.Int("quantity", input.Quantity),
	)
	return o, nil
}

// CompleteOrder marks a pending order completed and receives every line into
// stock in one transaction. Absent, completed and cancelled orders are left alone.
func (uc *orderUseCase) CompleteOrder(ctx context.Context, id int64) (*model.Order, bool, error) {
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.OrderKey(id))
	if err != nil {
		return nil, false, err
	}
	defer release()

	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logFailure("failed to find order", err, zap.Int64("order_id", id))
		return nil, false, err
	}
	if o == nil {
		uc.logger.Debug("complete skipped, order not found", zap.Int64("order_id", id))
		return nil, false, nil
	}
	if o.Status != model.OrderStatusPending {
		return o, false, nil
	}

	// Lines are immutable, so the stock keys can be taken up front.
	keys := make([]string, 0, len(o.Items))
	for _, line := range o.Items {
		keys = append(keys, lock.InventoryKey(line.ProductID))
	}
	ctx, releaseStock, err := lock.Hold(ctx, uc.locker, keys...)
	if err != nil {
		return nil, false, err
	}
	defer releaseStock()

	changed := false
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil || current.Status != model.OrderStatusPending {
			o = current
			return nil
		}
		if _, err := current.Complete(); err != nil {
			return err
		}
		if err := uc.repo.Save(ctx, current); err != nil {
			return err
		}

		for _, line := range current.Items {
			p, err := uc.productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				uc.logger.Warn("skipping line of deleted product",
					zap.Int64("order_id", id),
					zap.Int64("product_id", line.ProductID),
					zap.String("sku", line.ProductSKU),
				)
				continue
			}
			_, err = uc.ledger.Adjust(ctx, &invDTO.AdjustStockInput{
				ProductID:        line.ProductID,
				Delta:            line.Quantity,
				FallbackLocation: model.DefaultLocation,
				Reason:           model.ReasonOrderReceived,
				Reference:        "order:" + strconv.FormatInt(id, 10),
			})
			if err != nil {
				return err
			}
		}
		o, changed = current, true
		return nil
	})
	if err != nil {
		uc.logFailure("failed to complete order", err, zap.Int64("order_id", id))
		return nil, false, err
	}

	if changed {
		uc.logger.Info("order completed", zap.Int64("order_id", id), zap.Int("lines", len(o.Items)))
	}
	return o, changed, nil
}

func (uc *orderUseCase) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	ctx, release, err := lock.Hold(ctx, uc.locker, lock.OrderKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	var o *model.Order
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFoundf("order %d not found", id)
		}
		changed, err := current.Cancel()
		if err != nil {
			return err
		}
		o = current
		if !changed {
			return nil
		}
		return uc.repo.Save(ctx, current)
	})
	if err != nil {
		uc.logFailure("failed to cancel order", err, zap.Int64("order_id", id))
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logFailure("failed to get order", err, zap.Int64("order_id", id))
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFoundf("order %d not found", id)
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logFailure("failed to list orders", err)
		return nil, err
	}
	return orders, nil
}

func (uc *orderUseCase) logFailure(msg string, err error, fields ...zap.Field) {
	if apperror.IsUnexpected(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
		return
	}
	uc.logger.Debug(msg, append(fields, zap.Error(err))...)
}
