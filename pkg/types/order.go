package types

import (
	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is one entry in a user's order history. Dates stay in the dataset's
// YYYY-MM-DD form so snapshots round-trip byte-for-byte.
type Order struct {
	ID     string            `json:"id"`
	Date   string            `json:"date"`
	Status enums.OrderStatus `json:"status"`
	Total  decimal.Decimal   `json:"total"`
	Items  []OrderLine       `json:"items"`
}

// OrderLine is a product reference inside an order record.
type OrderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
