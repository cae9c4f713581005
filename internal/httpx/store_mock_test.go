package httpx

import (
	"context"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/stretchr/testify/mock"
)

type mockStore struct{ mock.Mock }

var _ catalog.Store = (*mockStore)(nil)

func (m *mockStore) ListProducts(ctx context.Context, f catalog.ProductFilter) (catalog.Page[catalog.Product], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(catalog.Page[catalog.Product]), args.Error(1)
}

func (m *mockStore) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) UpdateProduct(ctx context.Context, id int64, patch catalog.ProductPatch) (*catalog.Product, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) TopRated(ctx context.Context, minReviews, limit int) ([]catalog.RatedProduct, error) {
	args := m.Called(ctx, minReviews, limit)
	ps, _ := args.Get(0).([]catalog.RatedProduct)
	return ps, args.Error(1)
}

func (m *mockStore) ProductStatistics(ctx context.Context, now time.Time) (catalog.ProductStatistics, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(catalog.ProductStatistics), args.Error(1)
}

func (m *mockStore) ListReviews(ctx context.Context, f catalog.ReviewFilter) (catalog.Page[catalog.Review], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(catalog.Page[catalog.Review]), args.Error(1)
}

func (m *mockStore) ReviewsForProduct(ctx context.Context, productID int64) ([]catalog.Review, error) {
	args := m.Called(ctx, productID)
	rs, _ := args.Get(0).([]catalog.Review)
	return rs, args.Error(1)
}

func (m *mockStore) GetReview(ctx context.Context, id int64) (*catalog.Review, error) {
	args := m.Called(ctx, id)
	rv, _ := args.Get(0).(*catalog.Review)
	return rv, args.Error(1)
}

func (m *mockStore) ReviewExists(ctx context.Context, productID int64, reviewerName string) (bool, error) {
	args := m.Called(ctx, productID, reviewerName)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) CreateReview(ctx context.Context, in catalog.ReviewInput) (*catalog.Review, error) {
	args := m.Called(ctx, in)
	rv, _ := args.Get(0).(*catalog.Review)
	return rv, args.Error(1)
}

func (m *mockStore) UpdateReview(ctx context.Context, id int64, patch catalog.ReviewPatch) (*catalog.Review, error) {
	args := m.Called(ctx, id, patch)
	rv, _ := args.Get(0).(*catalog.Review)
	return rv, args.Error(1)
}

func (m *mockStore) DeleteReview(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) RecentReviews(ctx context.Context, since time.Time, limit int) ([]catalog.Review, error) {
	args := m.Called(ctx, since, limit)
	rs, _ := args.Get(0).([]catalog.Review)
	return rs, args.Error(1)
}

func (m *mockStore) AverageRating(ctx context.Context, productID int64) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockStore) RatingDistribution(ctx context.Context, productID int64) (catalog.RatingDistribution, error) {
	args := m.Called(ctx, productID)
	d, _ := args.Get(0).(catalog.RatingDistribution)
	return d, args.Error(1)
}

func (m *mockStore) ReviewStatistics(ctx context.Context, now time.Time) (catalog.ReviewStatistics, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(catalog.ReviewStatistics), args.Error(1)
}
