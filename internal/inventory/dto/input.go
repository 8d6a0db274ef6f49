package dto

type AdjustStockInput struct {
	ProductID        int64
	Delta            int
	FallbackLocation string // used when the product has no inventory row yet
	Reason           string // 'manual', 'order_received', ...
	Reference        string
}

type SetStockInput struct {
	ProductID int64
	Quantity  int
	Location  string
	Reason    string
}
