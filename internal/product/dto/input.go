package dto

import "github.com/shopspring/decimal"

type SaveProductInput struct {
	Name        string
	SKU         string
	Category    string
	Price       decimal.Decimal
	Description string
}

type AddProductInput struct {
	SaveProductInput
	Quantity int
	Location string // optional, defaults to the ledger's fallback location
}
