package dto

type PlaceOrderInput struct {
	SupplierID int64
	ProductSKU string
	Quantity   int
}
