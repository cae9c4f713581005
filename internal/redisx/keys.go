package redisx

import "time"

const (
	// Cache statistik: catalog:stats:products / catalog:stats:reviews -> JSON
	KeyProductStats = "catalog:stats:products"
	KeyReviewStats  = "catalog:stats:reviews"

	// Cache top-rated: catalog:top_rated:{min_reviews}:{limit} -> JSON
	KeyTopRated        = "catalog:top_rated:%d:%d"
	KeyTopRatedPattern = "catalog:top_rated:*"

	// Rate limit per IP: rate_limit:{scope}:{ip} -> counter
	KeyRateLimit = "rate_limit:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatsCache   = 1 * time.Minute
	TTLDedup        = 48 * time.Hour
	RateLimitWindow = 1 * time.Minute
)
