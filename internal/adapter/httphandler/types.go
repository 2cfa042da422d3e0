package httphandler

import (
	"github.com/shopspring/decimal"
	"github.com/toyverse/storefront/internal/core/domain"
)

type (
	Product struct {
		ID          int             `json:"id"`
		Name        string          `json:"name"`
		Price       decimal.Decimal `json:"price"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Description string          `json:"description"`
		InStock     bool            `json:"inStock"`
		Featured    bool            `json:"featured"`
		Tags        []string        `json:"tags"`
	}

	CartItem struct {
		Product
		Quantity  int             `json:"quantity"`
		LineTotal decimal.Decimal `json:"lineTotal"`
	}

	CartView struct {
		Items      []CartItem      `json:"items"`
		TotalItems int             `json:"totalItems"`
		Subtotal   decimal.Decimal `json:"subtotal"`
		IsOpen     bool            `json:"isOpen"`
	}

	AddCartItem struct {
		ID int `json:"id"`
	}

	UpdateCartItem struct {
		Quantity int `json:"quantity"`
	}
)

func toProductView(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		InStock:     p.InStock,
		Featured:    p.Featured,
		Tags:        p.Tags,
	}
}

func toProductViews(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = toProductView(p)
	}
	return vs
}

func toCartItemView(it domain.CartItem) CartItem {
	return CartItem{
		Product:   toProductView(it.Product),
		Quantity:  it.Quantity,
		LineTotal: it.LineTotal(),
	}
}
