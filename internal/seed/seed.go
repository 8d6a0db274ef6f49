// Package seed inserts the sample catalog used for demos and local runs.
package seed

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	productDTO "github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	supplierDTO "github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	SampleSupplierName = "Default Supplier"
	SampleProductSKU   = "SP001"
)

// SampleData adds a default supplier when there are no suppliers and a sample
// product with stock when there are no products. Tables that already hold rows
// are left alone, so running it on every start is safe.
func SampleData(ctx context.Context, suppliers supplier.UseCase, products product.UseCase, log logger.ZapLogger) error {
	log.Info("Checking if storage needs sample data...")

	existingSuppliers, err := suppliers.ListSuppliers(ctx)
	if err != nil {
		return fmt.Errorf("list suppliers: %w", err)
	}
	if len(existingSuppliers) == 0 {
		s, err := suppliers.AddSupplier(ctx, &supplierDTO.AddSupplierInput{
			Name:         SampleSupplierName,
			ContactEmail: "default@supplier.com",
			Phone:        "123-456-7890",
		})
		if err != nil {
			return fmt.Errorf("seed supplier: %w", err)
		}
		log.Info("Seeded sample supplier", zap.Int64("supplier_id", s.ID))
	}

	existingProducts, err := products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(existingProducts) == 0 {
		p, err := products.AddProduct(ctx, &productDTO.AddProductInput{
			SaveProductInput: productDTO.SaveProductInput{
				Name:        "Sample Product",
				SKU:         SampleProductSKU,
				Category:    "General",
				Price:       decimal.RequireFromString("10.99"),
				Description: "Demo product.",
			},
			Quantity: 10,
			Location: "Warehouse A",
		})
		if err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
		log.Info("Seeded sample product", zap.Int64("product_id", p.ID), zap.String("sku", p.SKU))
	}

	return nil
}
