package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/toyverse/storefront/internal/adapter/storage"
	"github.com/toyverse/storefront/internal/core/domain"
)

func testItems(t *testing.T) []domain.CartItem {
	t.Helper()
	return []domain.CartItem{
		{
			Product: domain.Product{
				ID:       1,
				Name:     "Neon Guardian Robot",
				Price:    decimal.RequireFromString("149.99"),
				Category: "Robots",
				Image:    "/assets/robot-toy.jpg",
				InStock:  true,
				Featured: true,
				Tags:     []string{"cyberpunk", "interactive", "LED"},
			},
			Quantity: 2,
		},
		{
			Product: domain.Product{
				ID:       3,
				Name:     "Cyber Warrior Elite",
				Price:    decimal.RequireFromString("89.99"),
				Category: "Action Figures",
				InStock:  true,
				Tags:     []string{"collectible", "detailed", "warrior"},
			},
			Quantity: 1,
		},
	}
}

// plant writes raw bytes under the cart key, bypassing the repository.
func plant(t *testing.T, path string, value []byte) {
	t.Helper()

	db, err := leveldb.OpenFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("cart"), value, nil))
	require.NoError(t, db.Close())
}

func TestCartRepository(t *testing.T) {

	t.Run("LoadFromFreshDatabaseIsEmpty", func(t *testing.T) {
		repo, err := storage.NewCartRepository(filepath.Join(t.TempDir(), "cart"))
		require.NoError(t, err)
		defer repo.Close()

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("RoundTripAcrossReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cart")

		repo, err := storage.NewCartRepository(path)
		require.NoError(t, err)

		saved := testItems(t)
		require.NoError(t, repo.Save(t.Context(), saved))
		repo.Close()

		repo, err = storage.NewCartRepository(path)
		require.NoError(t, err)
		defer repo.Close()

		loaded, err := repo.Load(t.Context())
		require.NoError(t, err)
		require.Len(t, loaded, len(saved))

		for i, it := range loaded {
			assert.Equal(t, saved[i].ID, it.ID)
			assert.Equal(t, saved[i].Quantity, it.Quantity)
			assert.True(t, saved[i].Price.Equal(it.Price),
				"price mismatch for id %d", it.ID)
			assert.Equal(t, saved[i].Name, it.Name)
			assert.Equal(t, saved[i].Tags, it.Tags)
		}
	})

	t.Run("SaveEmptyOverwrites", func(t *testing.T) {
		repo, err := storage.NewCartRepository(filepath.Join(t.TempDir(), "cart"))
		require.NoError(t, err)
		defer repo.Close()

		require.NoError(t, repo.Save(t.Context(), testItems(t)))
		require.NoError(t, repo.Save(t.Context(), nil))

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("MalformedSnapshotYieldsEmptyCart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cart")
		plant(t, path, []byte("{not json"))

		repo, err := storage.NewCartRepository(path)
		require.NoError(t, err)
		defer repo.Close()

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("UnsupportedVersionYieldsEmptyCart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cart")
		plant(t, path, []byte(`{"version":99,"items":[]}`))

		repo, err := storage.NewCartRepository(path)
		require.NoError(t, err)
		defer repo.Close()

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("NonPositiveQuantityYieldsEmptyCart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cart")
		plant(t, path, []byte(
			`{"version":1,"items":[{"id":1,"name":"x","price":"1.00","quantity":0}]}`,
		))

		repo, err := storage.NewCartRepository(path)
		require.NoError(t, err)
		defer repo.Close()

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("DuplicateLineIDYieldsEmptyCart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cart")
		plant(t, path, []byte(
			`{"version":1,"items":[`+
				`{"id":1,"name":"x","price":"1.00","quantity":1},`+
				`{"id":1,"name":"x","price":"1.00","quantity":2}]}`,
		))

		repo, err := storage.NewCartRepository(path)
		require.NoError(t, err)
		defer repo.Close()

		items, err := repo.Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
