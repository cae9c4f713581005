//go:build integration

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	pgschema "github.com/ariefcatur/go-product-reviews/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRepo starts PostgreSQL in a container and returns a repo on a fresh schema.
func setupRepo(t *testing.T) (*catalog.Repo, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("app"),
		postgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgschema.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pgschema.EnsureSchema(ctx, pool))
	// kedua kali harus tetap sukses
	require.NoError(t, pgschema.EnsureSchema(ctx, pool))

	return &catalog.Repo{DB: pool}, pool
}

func ptr[T any](v T) *T { return &v }

func mustProduct(t *testing.T, repo *catalog.Repo, name, price string) *catalog.Product {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), catalog.ProductInput{
		Name:  name,
		Price: ptr(decimal.RequireFromString(price)),
	})
	require.NoError(t, err)
	return p
}

func mustReview(t *testing.T, repo *catalog.Repo, productID int64, reviewer string, rating int) *catalog.Review {
	t.Helper()
	rv, err := repo.CreateReview(context.Background(), catalog.ReviewInput{
		ProductID:    productID,
		ReviewerName: reviewer,
		Rating:       ptr(rating),
	})
	require.NoError(t, err)
	return rv
}

func TestRepoIntegration(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()

	phone := mustProduct(t, repo, "Wireless Phone", "999.99")
	mouse := mustProduct(t, repo, "100% Mouse", "19.50")
	solo := mustProduct(t, repo, "Solo Lamp", "45.00")

	t.Run("average rating rounds to two decimals", func(t *testing.T) {
		mustReview(t, repo, phone.ID, "Alice", 5)
		mustReview(t, repo, phone.ID, "Bob", 4)
		mustReview(t, repo, phone.ID, "Carol", 5)

		avg, err := repo.AverageRating(ctx, phone.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.67, avg)

		avg, err = repo.AverageRating(ctx, mouse.ID)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})

	t.Run("duplicate review rejected by constraint", func(t *testing.T) {
		_, err := repo.CreateReview(ctx, catalog.ReviewInput{ProductID: phone.ID, ReviewerName: "Alice", Rating: ptr(1)})
		assert.ErrorIs(t, err, catalog.ErrDuplicateReview)

		var n int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM reviews WHERE product_id=$1 AND reviewer_name='Alice'`, phone.ID).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("review for missing product", func(t *testing.T) {
		_, err := repo.CreateReview(ctx, catalog.ReviewInput{ProductID: 999999, ReviewerName: "Zed", Rating: ptr(3)})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("rating distribution descending", func(t *testing.T) {
		d, err := repo.RatingDistribution(ctx, phone.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.RatingDistribution{{Rating: 5, Count: 2}, {Rating: 4, Count: 1}}, d)
	})

	t.Run("top rated respects min reviews", func(t *testing.T) {
		mustReview(t, repo, solo.ID, "Dan", 4)

		top, err := repo.TopRated(ctx, 2, 10)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, phone.ID, top[0].ID)
		assert.Equal(t, 4.67, top[0].Rating.AverageRating)
		assert.Equal(t, 3, top[0].Rating.ReviewsCount)

		top, err = repo.TopRated(ctx, 1, 10)
		require.NoError(t, err)
		assert.Len(t, top, 2)
	})

	t.Run("list products search and sort", func(t *testing.T) {
		page, err := repo.ListProducts(ctx, catalog.ProductFilter{Search: "100%"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, mouse.ID, page.Items[0].ID)

		page, err = repo.ListProducts(ctx, catalog.ProductFilter{SortBy: "average_rating", SortOrder: catalog.Desc})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, phone.ID, page.Items[0].ID)
		assert.Equal(t, mouse.ID, page.Items[2].ID)

		page, err = repo.ListProducts(ctx, catalog.ProductFilter{
			MinPrice: ptr(decimal.RequireFromString("19.50")),
			MaxPrice: ptr(decimal.RequireFromString("45")),
			SortBy:   "price", SortOrder: catalog.Asc,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.True(t, page.Items[0].Price.Equal(decimal.RequireFromString("19.5")))
	})

	t.Run("list reviews filters", func(t *testing.T) {
		page, err := repo.ListReviews(ctx, catalog.ReviewFilter{ProductID: &phone.ID, HighlyRated: true, SortBy: "reviewer_name", SortOrder: catalog.Asc})
		require.NoError(t, err)
		require.Equal(t, 3, page.Total)
		assert.Equal(t, "Alice", page.Items[0].ReviewerName)
		require.NotNil(t, page.Items[0].Product)
		assert.Equal(t, "Wireless Phone", page.Items[0].Product.Name)

		today := time.Now().UTC()
		page, err = repo.ListReviews(ctx, catalog.ReviewFilter{StartDate: &today, EndDate: &today, Search: "dan"})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("update review to taken reviewer", func(t *testing.T) {
		rv := mustReview(t, repo, mouse.ID, "Eve", 2)
		_, err := repo.UpdateReview(ctx, rv.ID, catalog.ReviewPatch{ReviewerName: catalog.Value("Eve")})
		require.NoError(t, err)

		other := mustReview(t, repo, mouse.ID, "Frank", 3)
		_, err = repo.UpdateReview(ctx, other.ID, catalog.ReviewPatch{ReviewerName: catalog.Value("Eve")})
		assert.ErrorIs(t, err, catalog.ErrDuplicateReview)

		updated, err := repo.UpdateReview(ctx, other.ID, catalog.ReviewPatch{Comment: catalog.Value("meh"), Rating: catalog.Value(4)})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Rating)
		require.NotNil(t, updated.Comment)
		assert.Equal(t, "meh", *updated.Comment)
	})

	t.Run("update product partial", func(t *testing.T) {
		p, err := repo.UpdateProduct(ctx, solo.ID, catalog.ProductPatch{
			Price:       catalog.Value(decimal.RequireFromString("50.25")),
			Description: catalog.Null[string](),
		})
		require.NoError(t, err)
		assert.Equal(t, "Solo Lamp", p.Name)
		assert.Equal(t, "50.25", p.Price.StringFixed(2))
		assert.Nil(t, p.Description)

		_, err = repo.UpdateProduct(ctx, 999999, catalog.ProductPatch{Name: catalog.Value("x")})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("delete product guarded by reviews", func(t *testing.T) {
		err := repo.DeleteProduct(ctx, phone.ID)
		assert.ErrorIs(t, err, catalog.ErrProductHasReviews)
		_, err = repo.GetProduct(ctx, phone.ID)
		assert.NoError(t, err)

		empty := mustProduct(t, repo, "Empty", "1")
		require.NoError(t, repo.DeleteProduct(ctx, empty.ID))
		_, err = repo.GetProduct(ctx, empty.ID)
		assert.ErrorIs(t, err, catalog.ErrNotFound)

		assert.ErrorIs(t, repo.DeleteProduct(ctx, empty.ID), catalog.ErrNotFound)
	})

	t.Run("delete review", func(t *testing.T) {
		rv := mustReview(t, repo, solo.ID, "Gina", 5)
		require.NoError(t, repo.DeleteReview(ctx, rv.ID))
		assert.ErrorIs(t, repo.DeleteReview(ctx, rv.ID), catalog.ErrNotFound)
	})

	t.Run("statistics", func(t *testing.T) {
		ps, err := repo.ProductStatistics(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 3, ps.TotalProducts)
		assert.Equal(t, 999.99, ps.HighestPrice)
		assert.Equal(t, 19.5, ps.LowestPrice)
		assert.Equal(t, 3, ps.RecentProducts)

		rs, err := repo.ReviewStatistics(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 6, rs.TotalReviews)
		assert.Equal(t, 1, rs.ReviewsWithComments)
		assert.NotEmpty(t, rs.TopReviewers)

		recent, err := repo.RecentReviews(ctx, time.Now().AddDate(0, 0, -7), 2)
		require.NoError(t, err)
		assert.Len(t, recent, 2)
		assert.NotNil(t, recent[0].Product)
	})
}
