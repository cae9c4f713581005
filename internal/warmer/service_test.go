package warmer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	kafkax "github.com/ariefcatur/go-product-reviews/internal/kafka"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type mockSource struct{ mock.Mock }

func (m *mockSource) ProductStatistics(ctx context.Context, t time.Time) (catalog.ProductStatistics, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(catalog.ProductStatistics), args.Error(1)
}

func (m *mockSource) ReviewStatistics(ctx context.Context, t time.Time) (catalog.ReviewStatistics, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(catalog.ReviewStatistics), args.Error(1)
}

func (m *mockSource) TopRated(ctx context.Context, minReviews, limit int) ([]catalog.RatedProduct, error) {
	args := m.Called(ctx, minReviews, limit)
	ps, _ := args.Get(0).([]catalog.RatedProduct)
	return ps, args.Error(1)
}

func newService(t *testing.T) (*Service, *mockSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	src := &mockSource{}
	return &Service{
		Store:       src,
		Redis:       rdb,
		Cache:       redisx.NewStatsCache(rdb, time.Minute),
		ServiceName: "warmer",
		Now:         func() time.Time { return now },
	}, src, mr
}

func event(id, typ string) kafkago.Message {
	env := catalog.Envelope{
		EventID:      id,
		EventType:    typ,
		EventVersion: 1,
		OccurredAt:   now,
		Payload:      kafkax.MustMarshal(catalog.ReviewPayload{ReviewID: 1, ProductID: 7, Rating: 5}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleCatalogEventWarmsCacheOnce(t *testing.T) {
	ctx := context.Background()
	svc, src, mr := newService(t)
	src.On("ProductStatistics", mock.Anything, now).Return(catalog.ProductStatistics{TotalProducts: 2}, nil).Once()
	src.On("ReviewStatistics", mock.Anything, now).Return(catalog.ReviewStatistics{TotalReviews: 5}, nil).Once()
	src.On("TopRated", mock.Anything, catalog.DefaultTopRatedMin, catalog.DefaultTopRatedLimit).Return([]catalog.RatedProduct{{
		Product: catalog.Product{ID: 7, Name: "Phone", Price: decimal.RequireFromString("10")},
		Rating:  catalog.RatingSummary{AverageRating: 4.5, ReviewsCount: 4},
	}}, nil).Once()

	require.NoError(t, svc.HandleCatalogEvent(ctx, event("ev-1", catalog.EventReviewCreated)))
	// redelivery dengan event_id sama tidak diproses lagi
	require.NoError(t, svc.HandleCatalogEvent(ctx, event("ev-1", catalog.EventReviewCreated)))

	src.AssertExpectations(t)
	assert.True(t, mr.Exists("dedup:warmer:ev-1"))

	var ps catalog.ProductStatistics
	require.True(t, svc.Cache.Get(ctx, redisx.KeyProductStats, &ps))
	assert.Equal(t, 2, ps.TotalProducts)

	raw, err := mr.Get(redisx.TopRatedKey(3, 10))
	require.NoError(t, err)
	var top []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &top))
	require.Len(t, top, 1)
	assert.Equal(t, 4.5, top[0]["average_rating"])
}

func TestHandleCatalogEventIgnoresUnknownType(t *testing.T) {
	svc, src, mr := newService(t)

	require.NoError(t, svc.HandleCatalogEvent(context.Background(), event("ev-2", "OrderCreated")))

	src.AssertNotCalled(t, "ProductStatistics", mock.Anything, mock.Anything)
	assert.False(t, mr.Exists("dedup:warmer:ev-2"))
}

func TestHandleCatalogEventReleasesDedupOnFailure(t *testing.T) {
	svc, src, mr := newService(t)
	src.On("ProductStatistics", mock.Anything, now).Return(catalog.ProductStatistics{}, errors.New("db down"))

	err := svc.HandleCatalogEvent(context.Background(), event("ev-3", catalog.EventProductDeleted))

	assert.ErrorContains(t, err, "db down")
	assert.False(t, mr.Exists("dedup:warmer:ev-3"))
}

func TestHandleCatalogEventBadEnvelope(t *testing.T) {
	svc, _, _ := newService(t)
	assert.Error(t, svc.HandleCatalogEvent(context.Background(), kafkago.Message{Value: []byte("{")}))
}
