package warmer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/httpx"
	kafkax "github.com/ariefcatur/go-product-reviews/internal/kafka"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// StatsSource adalah bagian catalog.Store yang dibutuhkan warmer.
type StatsSource interface {
	ProductStatistics(ctx context.Context, now time.Time) (catalog.ProductStatistics, error)
	ReviewStatistics(ctx context.Context, now time.Time) (catalog.ReviewStatistics, error)
	TopRated(ctx context.Context, minReviews, limit int) ([]catalog.RatedProduct, error)
}

// Service rebuilds the cached aggregates whenever a catalog write event
// arrives, so the first read after a write is already warm.
type Service struct {
	Store       StatsSource
	Redis       *redis.Client
	Cache       *redisx.StatsCache
	Resources   httpx.Transformer
	ServiceName string
	Now         func() time.Time
}

var catalogEvents = map[string]bool{
	catalog.EventProductCreated: true,
	catalog.EventProductUpdated: true,
	catalog.EventProductDeleted: true,
	catalog.EventReviewCreated:  true,
	catalog.EventReviewUpdated:  true,
	catalog.EventReviewDeleted:  true,
}

// HandleCatalogEvent: dipasang sebagai handler consumer.
func (s *Service) HandleCatalogEvent(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	env, err := kafkax.Decode[catalog.Envelope](m)
	if err != nil {
		return err
	}
	if !catalogEvents[env.EventType] {
		return nil
	} // ignore

	// 2) dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if s.Redis != nil {
		first, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
		if err != nil {
			log.Printf("warmer dedup %s: %v", env.EventID, err)
		} else if !first {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[catalog.ProductPayload](env.Payload)
	if err != nil {
		return err
	}

	// 3) rebuild; kalau gagal, lepas dedup supaya redelivery diproses ulang
	if err := s.Warm(ctx); err != nil {
		if s.Redis != nil {
			_ = s.Redis.Del(ctx, dkey).Err()
		}
		return fmt.Errorf("warm after %s (product %d): %w", env.EventType, p.ProductID, err)
	}
	return nil
}

// Warm drops every cached aggregate and recomputes the default ones.
func (s *Service) Warm(ctx context.Context) error {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	s.Cache.Invalidate(ctx)

	ps, err := s.Store.ProductStatistics(ctx, now)
	if err != nil {
		return err
	}
	s.Cache.Set(ctx, redisx.KeyProductStats, ps)

	rs, err := s.Store.ReviewStatistics(ctx, now)
	if err != nil {
		return err
	}
	s.Cache.Set(ctx, redisx.KeyReviewStats, rs)

	minReviews, limit := catalog.ClampTopRated(catalog.DefaultTopRatedMin, catalog.DefaultTopRatedLimit)
	rated, err := s.Store.TopRated(ctx, minReviews, limit)
	if err != nil {
		return err
	}
	s.Cache.Set(ctx, redisx.TopRatedKey(minReviews, limit), s.Resources.RatedProducts(rated))
	return nil
}
