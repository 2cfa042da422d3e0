package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// A CartItem is a single cart line: one product id and its quantity.
//
// Quantity is always >= 1 for an item present in the cart.
type CartItem struct {
	Product
	Quantity int
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartEventType string

const (
	CartEventItemAdded       CartEventType = "item_added"
	CartEventItemRemoved     CartEventType = "item_removed"
	CartEventQuantityChanged CartEventType = "quantity_changed"
)

// A CartEvent describes one cart mutation for the activity stream.
type CartEvent struct {
	Type        CartEventType
	ProductID   int
	ProductName string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	TotalItems  int
	OccurredAt  time.Time
}
