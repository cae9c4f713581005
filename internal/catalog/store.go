package catalog

import (
	"context"
	"time"
)

// Store is the data-access surface used by the HTTP handlers.
// *Repo is the PostgreSQL implementation.
type Store interface {
	ListProducts(ctx context.Context, f ProductFilter) (Page[Product], error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, p ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	TopRated(ctx context.Context, minReviews, limit int) ([]RatedProduct, error)
	ProductStatistics(ctx context.Context, now time.Time) (ProductStatistics, error)

	ListReviews(ctx context.Context, f ReviewFilter) (Page[Review], error)
	ReviewsForProduct(ctx context.Context, productID int64) ([]Review, error)
	GetReview(ctx context.Context, id int64) (*Review, error)
	ReviewExists(ctx context.Context, productID int64, reviewerName string) (bool, error)
	CreateReview(ctx context.Context, in ReviewInput) (*Review, error)
	UpdateReview(ctx context.Context, id int64, p ReviewPatch) (*Review, error)
	DeleteReview(ctx context.Context, id int64) error
	RecentReviews(ctx context.Context, since time.Time, limit int) ([]Review, error)
	AverageRating(ctx context.Context, productID int64) (float64, error)
	RatingDistribution(ctx context.Context, productID int64) (RatingDistribution, error)
	ReviewStatistics(ctx context.Context, now time.Time) (ReviewStatistics, error)
}

var _ Store = (*Repo)(nil)
