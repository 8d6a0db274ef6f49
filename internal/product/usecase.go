package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
)

type UseCase interface {
	// AddProduct upserts the catalog entry and sets its stock to the given quantity.
	AddProduct(ctx context.Context, input *dto.AddProductInput) (*model.Product, error)
	// SaveProduct upserts the catalog entry only.
	SaveProduct(ctx context.Context, input *dto.SaveProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, sku string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
