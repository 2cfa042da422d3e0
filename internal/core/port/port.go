package port

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/toyverse/storefront/internal/core/domain"
)

// Outbound ports.

type CartRepository interface {
	// Load returns the persisted cart items. A missing or corrupt
	// snapshot is not an error: it yields an empty item list.
	Load(context.Context) ([]domain.CartItem, error)
	Save(context.Context, []domain.CartItem) error
}

type CartEventsProducer interface {
	ProduceEvent(context.Context, domain.CartEvent) error
}

type ProductActivityViewer interface {
	// Counts returns the add-to-cart counter per product id.
	Counts(context.Context) (map[int]int64, error)
}

// Inbound ports, consumed by the view layer.

type ProductsProvider interface {
	FilterProducts(query, category string) []domain.Product
	FeaturedProducts() []domain.Product
	TrendingProducts(context.Context) ([]domain.Product, error)
	Categories() []string
	Product(id int) (domain.Product, error)
}

type CartOperator interface {
	AddItem(context.Context, domain.Product) error
	UpdateQuantity(ctx context.Context, id, quantity int) error
	RemoveItem(ctx context.Context, id int) error
	Items() []domain.CartItem
	TotalItems() int
	Subtotal() decimal.Decimal
	IsOpen() bool
	OpenCart()
	CloseCart()
}
