package model

import (
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

type Supplier struct {
	ID           int64  `db:"supplier_id" json:"id"`
	Name         string `db:"name" json:"name"`
	ContactEmail string `db:"contact_email" json:"contact_email"`
	Phone        string `db:"phone" json:"phone"`
	// Advisory only, derived from order lines. Not persisted.
	Products []Product `db:"-" json:"products,omitempty"`
}

func NewSupplier(name, contactEmail, phone string) (*Supplier, error) {
	s := &Supplier{
		Name:         strings.TrimSpace(name),
		ContactEmail: strings.TrimSpace(contactEmail),
		Phone:        strings.TrimSpace(phone),
	}
	if s.Name == "" {
		return nil, apperror.InvalidArgument("supplier name is required")
	}
	return s, nil
}

// AddProduct links a product once; repeated SKUs are ignored.
func (s *Supplier) AddProduct(p Product) {
	for _, existing := range s.Products {
		if existing.SKU == p.SKU {
			return
		}
	}
	s.Products = append(s.Products, p)
}
