package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyverse/storefront/internal/adapter/catalog"
	"github.com/toyverse/storefront/internal/core/domain"
)

func writeDataset(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad(t *testing.T) {

	t.Run("EmbeddedDefault", func(t *testing.T) {
		products, categories, err := catalog.Load("")
		require.NoError(t, err)

		assert.Len(t, products, 6)
		assert.Len(t, categories, 7)
		assert.Equal(t, domain.CategoryAll, categories[0])

		assert.Equal(t, 1, products[0].ID)
		assert.Equal(t, "Neon Guardian Robot", products[0].Name)
		assert.Equal(t, "149.99", products[0].Price.String())
		assert.False(t, products[4].InStock)
	})

	t.Run("FileOverride", func(t *testing.T) {
		path := writeDataset(t, `{
			"products": [
				{"id": 1, "name": "Plush Dinosaur", "price": 12.5,
				 "category": "Plush", "inStock": true, "tags": ["soft"]}
			],
			"categories": ["All", "Plush"]
		}`)

		products, categories, err := catalog.Load(path)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Plush Dinosaur", products[0].Name)
		assert.Equal(t, "12.5", products[0].Price.String())
		assert.Equal(t, []string{"All", "Plush"}, categories)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := catalog.Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		path := writeDataset(t, `{
			"products": [
				{"id": 1, "name": "A", "price": 1, "category": "Plush"},
				{"id": 1, "name": "B", "price": 2, "category": "Plush"}
			],
			"categories": ["All", "Plush"]
		}`)

		_, _, err := catalog.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrDuplicateID)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		path := writeDataset(t, `{
			"products": [
				{"id": 1, "name": "A", "price": 1, "category": "Robots"}
			],
			"categories": ["All", "Plush"]
		}`)

		_, _, err := catalog.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrUnknownCategory)
	})

	t.Run("AllIsNotAProductCategory", func(t *testing.T) {
		path := writeDataset(t, `{
			"products": [
				{"id": 1, "name": "A", "price": 1, "category": "All"}
			],
			"categories": ["All", "Plush"]
		}`)

		_, _, err := catalog.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrUnknownCategory)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		path := writeDataset(t, `{
			"products": [
				{"id": 1, "name": "A", "price": -1, "category": "Plush"}
			],
			"categories": ["All", "Plush"]
		}`)

		_, _, err := catalog.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrNegativePrice)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		path := writeDataset(t, `{"products": [], "categories": []}`)

		_, _, err := catalog.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrNoProducts)
	})
}
