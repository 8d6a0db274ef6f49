package dto

type AddSupplierInput struct {
	ID           int64 // zero creates a new supplier
	Name         string
	ContactEmail string
	Phone        string
}
