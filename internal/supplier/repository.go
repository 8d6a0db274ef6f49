package supplier

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*model.Supplier, error)
	FindAll(ctx context.Context) ([]model.Supplier, error)

	// Save updates when s.ID names an existing row, otherwise inserts with a fresh id.
	Save(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id int64) error
}
