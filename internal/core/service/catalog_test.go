package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/service"
)

type MockActivityViewer struct {
	mock.Mock
}

func (m *MockActivityViewer) Counts(
	ctx context.Context,
) (map[int]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[int]int64)
	return counts, args.Error(1)
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Name: "Neon Guardian Robot", Price: price("149.99"),
			Category: "Robots", InStock: true, Featured: true,
			Description: "A futuristic robot companion" +
				" with programmable LED patterns.",
			Tags: []string{"cyberpunk", "interactive", "LED"},
		},
		{
			ID: 2, Name: "Holo-Console X1", Price: price("299.99"),
			Category: "Gaming", InStock: true, Featured: true,
			Description: "Next-gen handheld gaming console" +
				" with holographic display technology.",
			Tags: []string{"gaming", "holographic", "portable"},
		},
		{
			ID: 3, Name: "Cyber Warrior Elite", Price: price("89.99"),
			Category: "Action Figures", InStock: true,
			Description: "Highly detailed action figure" +
				" with interchangeable weapons.",
			Tags: []string{"collectible", "detailed", "warrior"},
		},
		{
			ID: 4, Name: "Neo Tokyo Diorama", Price: price("199.99"),
			Category: "Dioramas", InStock: true, Featured: true,
			Description: "Miniature cyberpunk city" +
				" with working LED lights.",
			Tags: []string{"diorama", "cyberpunk", "interactive"},
		},
		{
			ID: 5, Name: "Quantum Puzzle Cube", Price: price("59.99"),
			Category: "Puzzles", InStock: false,
			Description: "Mind-bending holographic puzzle" +
				" that changes patterns.",
			Tags: []string{"puzzle", "holographic", "challenging"},
		},
		{
			ID: 6, Name: "Stellar Interceptor", Price: price("119.99"),
			Category: "Vehicles", InStock: true,
			Description: "Retro-futuristic spaceship model" +
				" with light-up engines.",
			Tags: []string{"spaceship", "retro", "sounds"},
		},
	}
}

func testCategories() []string {
	return []string{
		"All", "Robots", "Gaming", "Action Figures",
		"Dioramas", "Puzzles", "Vehicles",
	}
}

func newCatalog(activity *MockActivityViewer) service.CatalogService {
	if activity == nil {
		return service.NewCatalog(testProducts(), testCategories(), nil)
	}
	return service.NewCatalog(testProducts(), testCategories(), activity)
}

func productIDs(ps []domain.Product) (ids []int) {
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFilterProducts(t *testing.T) {

	t.Run("EmptyQueryAllCategoryReturnsWholeCatalog", func(t *testing.T) {
		s := newCatalog(nil)

		ps := s.FilterProducts("", domain.CategoryAll)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, productIDs(ps))
	})

	t.Run("EmptyCategoryActsAsAll", func(t *testing.T) {
		s := newCatalog(nil)

		ps := s.FilterProducts("", "")
		assert.Len(t, ps, 6)
	})

	t.Run("CategoryExactMatch", func(t *testing.T) {
		s := newCatalog(nil)

		ps := s.FilterProducts("", "Gaming")
		assert.Equal(t, []int{2}, productIDs(ps))

		ps = s.FilterProducts("", "gaming")
		assert.Empty(t, ps)
	})

	t.Run("QueryIsCaseInsensitive", func(t *testing.T) {
		s := newCatalog(nil)

		upper := s.FilterProducts("HOLO", domain.CategoryAll)
		lower := s.FilterProducts("holo", domain.CategoryAll)
		assert.Equal(t, productIDs(lower), productIDs(upper))
	})

	t.Run("QueryMatchesNameDescriptionAndTags", func(t *testing.T) {
		s := newCatalog(nil)

		// "Holo-Console X1" by name, "Quantum Puzzle Cube" by
		// the "holographic" tag, plus description matches
		ps := s.FilterProducts("holo", domain.CategoryAll)
		ids := productIDs(ps)
		assert.Contains(t, ids, 2)
		assert.Contains(t, ids, 5)

		ps = s.FilterProducts("spaceship", domain.CategoryAll)
		assert.Equal(t, []int{6}, productIDs(ps))
	})

	t.Run("QueryAndCategoryCombine", func(t *testing.T) {
		s := newCatalog(nil)

		ps := s.FilterProducts("holo", "Puzzles")
		assert.Equal(t, []int{5}, productIDs(ps))
	})

	t.Run("FilteredIsSubsetOfCategoryOnly", func(t *testing.T) {
		s := newCatalog(nil)

		for _, cat := range testCategories() {
			base := productIDs(s.FilterProducts("", cat))
			narrowed := productIDs(s.FilterProducts("cyber", cat))
			for _, id := range narrowed {
				assert.Contains(t, base, id)
			}
		}
	})

	t.Run("NoMatchesYieldsEmpty", func(t *testing.T) {
		s := newCatalog(nil)

		ps := s.FilterProducts("plush dinosaur", domain.CategoryAll)
		assert.Empty(t, ps)
	})
}

func TestFeaturedProducts(t *testing.T) {
	s := newCatalog(nil)

	ps := s.FeaturedProducts()
	assert.Equal(t, []int{1, 2, 4}, productIDs(ps))
}

func TestProduct(t *testing.T) {

	t.Run("Found", func(t *testing.T) {
		s := newCatalog(nil)

		p, err := s.Product(2)
		require.NoError(t, err)
		assert.Equal(t, "Holo-Console X1", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newCatalog(nil)

		_, err := s.Product(42)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestCategories(t *testing.T) {
	s := newCatalog(nil)
	assert.Equal(t, testCategories(), s.Categories())
}

func TestTrendingProducts(t *testing.T) {

	t.Run("RanksByCountDesc", func(t *testing.T) {
		activity := new(MockActivityViewer)
		activity.On("Counts", mock.Anything).Return(
			map[int]int64{3: 5, 1: 2, 6: 9}, nil,
		)
		s := newCatalog(activity)

		ps, err := s.TrendingProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []int{6, 3, 1}, productIDs(ps))
	})

	t.Run("CatalogOrderBreaksTies", func(t *testing.T) {
		activity := new(MockActivityViewer)
		activity.On("Counts", mock.Anything).Return(
			map[int]int64{4: 3, 2: 3}, nil,
		)
		s := newCatalog(activity)

		ps, err := s.TrendingProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4}, productIDs(ps))
	})

	t.Run("NoViewerNoTrending", func(t *testing.T) {
		s := newCatalog(nil)

		ps, err := s.TrendingProducts(t.Context())
		require.NoError(t, err)
		assert.Empty(t, ps)
	})
}
