package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
)

var _ port.ProductsProvider = (*CatalogService)(nil)

const (
	featuredLimit = 3
	trendingLimit = 6
)

// A CatalogService serves the static product catalog: listing,
// search/filter, featured and trending selections.
//
// The catalog is immutable after construction, all reads are pure.
type CatalogService struct {
	products   []domain.Product
	categories []string
	byID       map[int]domain.Product
	activity   port.ProductActivityViewer
}

// NewCatalog builds the service over the given catalog.
// The activity viewer is optional: nil disables the trending listing.
func NewCatalog(
	products []domain.Product,
	categories []string,
	activity port.ProductActivityViewer,
) CatalogService {
	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return CatalogService{products, categories, byID, activity}
}

// FilterProducts returns the products matching both the category and
// the search query, preserving catalog order. An empty query and the
// "All" (or empty) category match every product.
func (s CatalogService) FilterProducts(
	query, category string,
) []domain.Product {
	q := strings.ToLower(query)

	var vs []domain.Product
	for _, p := range s.products {
		if !matchCategory(p, category) {
			continue
		}
		if q != "" && !matchQuery(p, q) {
			continue
		}
		vs = append(vs, p)
	}
	return vs
}

// FeaturedProducts returns up to the first three featured products
// in catalog order.
func (s CatalogService) FeaturedProducts() []domain.Product {
	var vs []domain.Product
	for _, p := range s.products {
		if !p.Featured {
			continue
		}
		vs = append(vs, p)
		if len(vs) == featuredLimit {
			break
		}
	}
	return vs
}

// TrendingProducts ranks catalog products by add-to-cart activity,
// most added first, catalog order on equal counts. Without an
// activity viewer it returns no products.
func (s CatalogService) TrendingProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "CatalogService.TrendingProducts"

	if s.activity == nil {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts, err := s.activity.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var vs []domain.Product
	for _, p := range s.products {
		if counts[p.ID] > 0 {
			vs = append(vs, p)
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		return counts[vs[i].ID] > counts[vs[j].ID]
	})

	if len(vs) > trendingLimit {
		vs = vs[:trendingLimit]
	}
	return vs, nil
}

func (s CatalogService) Categories() []string {
	return s.categories
}

func (s CatalogService) Product(id int) (domain.Product, error) {
	const op = "CatalogService.Product"

	p, ok := s.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf(
			"%s: id %d: %w", op, id, domain.ErrProductNotFound,
		)
	}
	return p, nil
}

func matchCategory(p domain.Product, category string) bool {
	if category == "" || category == domain.CategoryAll {
		return true
	}
	return p.Category == category
}

func matchQuery(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
