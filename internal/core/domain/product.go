package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CategoryAll is the catalog-wide filter label, it matches every product.
const CategoryAll = "All"

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	InStock     bool
	Featured    bool
	Tags        []string
}
