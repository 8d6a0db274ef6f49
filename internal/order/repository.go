package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// FindByID loads the order with its lines, (nil, nil) when absent.
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error)
	CountBySupplier(ctx context.Context, supplierID int64) (int, error)

	// Save inserts the order and its lines when o.ID is unknown, otherwise updates
	// supplier and status. Lines are immutable after placement.
	Save(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, id int64) error
}
