package model

import (
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	SKU         string          `db:"sku" json:"sku"` // natural key, case-sensitive
	Category    string          `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
}

// NewProduct validates and builds a catalog entry. The id is assigned by the store.
func NewProduct(name, sku, category string, price decimal.Decimal, description string) (*Product, error) {
	p := &Product{
		Name:        strings.TrimSpace(name),
		SKU:         NormalizeSKU(sku),
		Category:    strings.TrimSpace(category),
		Description: description,
	}
	if p.Name == "" {
		return nil, apperror.InvalidArgument("product name is required")
	}
	if p.SKU == "" {
		return nil, apperror.InvalidArgument("product SKU is required")
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.InvalidArgument("price cannot be negative")
	}
	p.Price = price
	return nil
}

// NormalizeSKU trims surrounding whitespace. Case is preserved: SKU lookups are exact.
func NormalizeSKU(sku string) string {
	return strings.TrimSpace(sku)
}
