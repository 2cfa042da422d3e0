// Package catalog loads the static product dataset the storefront
// serves. The dataset is a build-time input: the embedded default or
// an operator-supplied JSON file, validated once and never reloaded.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/toyverse/storefront/internal/core/domain"
)

//go:embed products.json
var defaultDataset []byte

var (
	ErrNoProducts      = errors.New("dataset has no products")
	ErrNoCategories    = errors.New("dataset has no categories")
	ErrDuplicateID     = errors.New("duplicate product id")
	ErrUnknownCategory = errors.New("product category not in labels")
	ErrNegativePrice   = errors.New("negative product price")
)

type dataset struct {
	Products   []productRecord `json:"products"`
	Categories []string        `json:"categories"`
}

type productRecord struct {
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

// Load reads and validates the dataset at path. An empty path loads
// the embedded default.
func Load(path string) ([]domain.Product, []string, error) {
	const op = "catalog.Load"

	data := defaultDataset
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validate(ds); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, len(ds.Products))
	for i, r := range ds.Products {
		ps[i] = toDomain(r)
	}
	return ps, ds.Categories, nil
}

func validate(ds dataset) error {
	if len(ds.Products) == 0 {
		return ErrNoProducts
	}
	if len(ds.Categories) == 0 {
		return ErrNoCategories
	}

	labels := make(map[string]struct{}, len(ds.Categories))
	for _, c := range ds.Categories {
		labels[c] = struct{}{}
	}

	seen := make(map[int]struct{}, len(ds.Products))
	for _, r := range ds.Products {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}

		if _, ok := labels[r.Category]; !ok || r.Category == domain.CategoryAll {
			return fmt.Errorf("%w: %q (id %d)", ErrUnknownCategory, r.Category, r.ID)
		}

		if r.Price.IsNegative() {
			return fmt.Errorf("%w: id %d", ErrNegativePrice, r.ID)
		}
	}
	return nil
}

func toDomain(r productRecord) domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Image:       r.Image,
		InStock:     r.InStock,
		Featured:    r.Featured,
		Tags:        r.Tags,
	}
}
