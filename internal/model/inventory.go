package model

import (
	"math"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

const DefaultLocation = "Default Location"

// MaxQuantity is the largest stock level or order quantity the store columns hold.
const MaxQuantity = math.MaxInt32

// Stock movement reasons.
const (
	ReasonManual        = "manual"
	ReasonOrderReceived = "order_received"
	ReasonStockSet      = "stock_set"
	ReasonStockCount    = "stock_count"
)

type InventoryItem struct {
	ID        int64  `db:"inventory_id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"` // natural key, one row per product
	Quantity  int    `db:"quantity" json:"quantity"`
	Location  string `db:"location" json:"location"`

	// Joined from products on list reads.
	ProductName string `db:"product_name" json:"product_name,omitempty"`
	ProductSKU  string `db:"product_sku" json:"product_sku,omitempty"`
}

func NewInventoryItem(productID int64, quantity int, location string) (*InventoryItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if location == "" {
		location = DefaultLocation
	}
	return &InventoryItem{ProductID: productID, Quantity: quantity, Location: location}, nil
}

// UpdateStock applies delta or nothing at all.
func (i *InventoryItem) UpdateStock(delta int) error {
	if delta > 0 && delta > MaxQuantity-i.Quantity {
		return apperror.InvalidArgumentf("stock cannot exceed %d", MaxQuantity)
	}
	if delta < 0 && i.Quantity+delta < 0 {
		return apperror.InvariantViolation("stock cannot go below zero")
	}
	i.Quantity += delta
	return nil
}

// ValidateQuantity checks an absolute stock level.
func ValidateQuantity(quantity int) error {
	if quantity < 0 {
		return apperror.InvalidArgument("quantity cannot be negative")
	}
	if quantity > MaxQuantity {
		return apperror.InvalidArgumentf("quantity cannot exceed %d", MaxQuantity)
	}
	return nil
}

// StockMovement is one audit row of the stock ledger.
type StockMovement struct {
	ID             int64     `db:"id" json:"id"`
	ProductID      int64     `db:"product_id" json:"product_id"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	Reason         string    `db:"reason" json:"reason"`
	Reference      string    `db:"reference" json:"reference"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
