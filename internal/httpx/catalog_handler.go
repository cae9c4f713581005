package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	kafkax "github.com/ariefcatur/go-product-reviews/internal/kafka"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

// StatsCache is satisfied by *redisx.StatsCache.
type StatsCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context)
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// RateLimiter is satisfied by *redisx.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, client string) (bool, error)
}

// CatalogHandler serves the product and review endpoints. Only Store is
// required; Cache, Producer and Limiter may be nil.
type CatalogHandler struct {
	Store     catalog.Store
	Cache     StatsCache
	Producer  Publisher
	Limiter   RateLimiter
	Resources Transformer
	Service   string
	Debug     bool

	// StorageDir: root folder upload gambar (multipart create).
	StorageDir string
	Now        func() time.Time
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/top-rated", h.topRated)
		r.Get("/statistics", h.productStatistics)
		r.Get("/{id:[0-9]+}", h.showProduct)
		r.Put("/{id:[0-9]+}", h.updateProduct)
		r.Patch("/{id:[0-9]+}", h.updateProduct)
		r.Delete("/{id:[0-9]+}", h.deleteProduct)
		r.Get("/{id:[0-9]+}/reviews", h.productReviews)
		r.With(RateLimit(h.Limiter)).Post("/{id:[0-9]+}/reviews", h.createReview)
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Get("/recent", h.recentReviews)
		r.Get("/statistics", h.reviewStatistics)
		r.Get("/{id:[0-9]+}", h.showReview)
		r.Put("/{id:[0-9]+}", h.updateReview)
		r.Patch("/{id:[0-9]+}", h.updateReview)
		r.Delete("/{id:[0-9]+}", h.deleteReview)
	})
}

func (h *CatalogHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func urlID(r *http.Request) int64 {
	// route pattern sudah membatasi ke digit; overflow jatuh ke 0 -> 404
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (h *CatalogHandler) cacheGet(ctx context.Context, key string, dst any) bool {
	return h.Cache != nil && h.Cache.Get(ctx, key, dst)
}

func (h *CatalogHandler) cacheSet(ctx context.Context, key string, v any) {
	if h.Cache != nil {
		h.Cache.Set(ctx, key, v)
	}
}

// afterWrite invalidates cached aggregates and publishes the domain event.
func (h *CatalogHandler) afterWrite(r *http.Request, eventType string, productID int64, payload any) {
	if h.Cache != nil {
		h.Cache.Invalidate(r.Context())
	}
	if h.Producer == nil {
		return
	}
	ev := catalog.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    h.now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: strconv.FormatInt(productID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(catalog.PartitionKey(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
