package model

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusCancelled is terminal. Orders can only be cancelled while pending.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID         int64       `db:"order_id" json:"id"`
	SupplierID int64       `db:"supplier_id" json:"supplier_id"`
	OrderDate  time.Time   `db:"order_date" json:"order_date"`
	Status     OrderStatus `db:"status" json:"status"`
	Items      []OrderItem `db:"-" json:"items"`
}

// OrderItem is a snapshot of the product taken when the order was placed.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductSKU  string          `db:"product_sku" json:"product_sku"`
	ProductName string          `db:"product_name" json:"product_name"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity    int             `db:"quantity" json:"quantity"`
}

func NewOrder(supplierID int64, orderDate time.Time) *Order {
	return &Order{
		SupplierID: supplierID,
		OrderDate:  orderDate,
		Status:     OrderStatusPending,
	}
}

func NewOrderItem(p *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   p.ID,
		ProductSKU:  p.SKU,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    quantity,
	}
}

func (o *Order) AddItem(item OrderItem) error {
	if item.Quantity <= 0 {
		return apperror.InvalidArgument("cannot order an item with zero or negative quantity")
	}
	if item.Quantity > MaxQuantity {
		return apperror.InvalidArgumentf("cannot order more than %d units", MaxQuantity)
	}
	if o.Status != OrderStatusPending {
		return apperror.InvariantViolation("items can only be added to a pending order")
	}
	o.Items = append(o.Items, item)
	return nil
}

// Complete moves a pending order to Completed. It reports false when the order
// was already completed so callers can treat a repeat as a no-op.
func (o *Order) Complete() (bool, error) {
	switch o.Status {
	case OrderStatusPending:
		o.Status = OrderStatusCompleted
		return true, nil
	case OrderStatusCompleted:
		return false, nil
	default:
		return false, apperror.InvariantViolation("cannot complete a cancelled order")
	}
}

func (o *Order) Cancel() (bool, error) {
	switch o.Status {
	case OrderStatusPending:
		o.Status = OrderStatusCancelled
		return true, nil
	case OrderStatusCancelled:
		return false, nil
	default:
		return false, apperror.InvariantViolation("cannot cancel a completed order")
	}
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
