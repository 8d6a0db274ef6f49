package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Repository finds return (nil, nil) when no row matches.
type Repository interface {
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)

	// Save upserts by SKU and writes the surrogate id back into p.
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, sku string) error
}
