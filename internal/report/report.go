// Package report renders the plain text inventory snapshot.
package report

import (
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const (
	Header   = "=== Inventory Report ==="
	FileName = "inventory_report.txt"
)

// Build lists every item on its own line followed by the item count. The output
// has no trailing newline.
func Build(items []model.InventoryItem) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "Product: %s | SKU: %s | Stock: %d | Location: %s\n",
			item.ProductName, item.ProductSKU, item.Quantity, item.Location)
	}
	fmt.Fprintf(&b, "\nTotal Items: %d", len(items))
	return b.String()
}
