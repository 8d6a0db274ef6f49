package dto

type MovementFilters struct {
	SKU   string // empty lists movements of every product
	Limit int
}
