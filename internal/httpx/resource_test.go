package httpx

import (
	"testing"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestImageURL(t *testing.T) {
	const base = "http://cdn.local/"
	tests := []struct {
		in   *string
		want *string
	}{
		{nil, nil},
		{strp(""), nil},
		{strp("https://img.example.com/a.png"), strp("https://img.example.com/a.png")},
		{strp("storage/products/a.png"), strp("http://cdn.local/storage/products/a.png")},
		{strp("images/products/b.jpg"), strp("http://cdn.local/images/products/b.jpg")},
		{strp("c.jpg"), strp("http://cdn.local/images/products/c.jpg")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageURL(base, tt.in))
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$999.99", FormatPrice(decimal.RequireFromString("999.99")))
	assert.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "$9,999,999.99", FormatPrice(decimal.RequireFromString("9999999.99")))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★★", Stars(9))
}

func TestReviewIsRecent(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tr := Transformer{Now: func() time.Time { return now }}

	fresh := tr.Review(catalog.Review{Rating: 4, CreatedAt: now.AddDate(0, 0, -6)})
	stale := tr.Review(catalog.Review{Rating: 4, CreatedAt: now.AddDate(0, 0, -8)})

	assert.True(t, fresh.IsRecent)
	assert.False(t, stale.IsRecent)
	assert.Nil(t, fresh.Product)
	assert.Equal(t, "2025-03-04 00:00:00", fresh.CreatedAt)
}

func TestProductWithoutReviewsAverageZero(t *testing.T) {
	res := Transformer{}.ProductWithReviews(catalog.Product{Price: decimal.RequireFromString("5")}, nil)

	assert.Equal(t, 0.0, *res.AverageRating)
	assert.Equal(t, 0, *res.ReviewsCount)
	assert.Equal(t, "5.00", res.Price)
	assert.NotNil(t, res.Reviews)
}
