package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
)

type UseCase interface {
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)
	// CompleteOrder returns changed=false when the order is absent or already completed.
	CompleteOrder(ctx context.Context, id int64) (order *model.Order, changed bool, err error)
	CancelOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
}
