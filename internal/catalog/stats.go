package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	TopRatedMinAverage    = 4.0
	DefaultTopRatedMin    = 3
	DefaultTopRatedLimit  = 10
	MaxTopRatedLimit      = 50
	StatisticsRecentDays  = 30
	TopReviewersLimit     = 10
	RecentReviewDays      = 7
	MaxRecentReviewDays   = 365
	DefaultRecentLimit    = 10
	MaxRecentReviewsLimit = 50
)

// RatingSummary hanya ada kalau review product ikut di-load.
type RatingSummary struct {
	AverageRating float64
	ReviewsCount  int
}

type ProductStatistics struct {
	TotalProducts  int     `json:"total_products"`
	AveragePrice   float64 `json:"average_price"`
	HighestPrice   float64 `json:"highest_price"`
	LowestPrice    float64 `json:"lowest_price"`
	RecentProducts int     `json:"recent_products"`
}

type TopReviewer struct {
	ReviewerName string `json:"reviewer_name"`
	ReviewCount  int    `json:"review_count"`
}

type ReviewStatistics struct {
	TotalReviews        int           `json:"total_reviews"`
	AverageRating       float64       `json:"average_rating"`
	RecentReviews       int           `json:"recent_reviews"`
	ReviewsWithComments int           `json:"reviews_with_comments"`
	TopReviewers        []TopReviewer `json:"top_reviewers"`
}

type RatingCount struct {
	Rating int
	Count  int
}

// RatingDistribution is ordered by rating descending and serializes as a
// JSON object that keeps that order: {"5":2,"4":1}.
type RatingDistribution []RatingCount

func (d RatingDistribution) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, rc := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(strconv.Itoa(rc.Rating)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(rc.Count))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (d RatingDistribution) Total() int {
	n := 0
	for _, rc := range d {
		n += rc.Count
	}
	return n
}

type ProductReviewStats struct {
	AverageRating      float64            `json:"average_rating"`
	TotalReviews       int                `json:"total_reviews"`
	RatingDistribution RatingDistribution `json:"rating_distribution"`
}

// AverageRating is the mean of ratings rounded half away from zero to 2
// decimals, 0 for no ratings. Same rounding as ROUND(AVG(..)::numeric, 2).
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(len(ratings))), 8)
	return avg.Round(2).InexactFloat64()
}

// SummarizeReviews builds the rating summary for a product whose reviews were loaded.
func SummarizeReviews(reviews []Review) RatingSummary {
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return RatingSummary{AverageRating: AverageRating(ratings), ReviewsCount: len(reviews)}
}

// ClampTopRated applies the defaults and upper bound of the top-rated query.
func ClampTopRated(minReviews, limit int) (int, int) {
	if minReviews < 0 {
		minReviews = DefaultTopRatedMin
	}
	if limit < 1 {
		limit = DefaultTopRatedLimit
	}
	if limit > MaxTopRatedLimit {
		limit = MaxTopRatedLimit
	}
	return minReviews, limit
}

// ClampRecent applies the defaults and bounds of the recent reviews query.
func ClampRecent(days, limit int) (int, int) {
	if days < 1 {
		days = RecentReviewDays
	}
	if days > MaxRecentReviewDays {
		days = MaxRecentReviewDays
	}
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentReviewsLimit {
		limit = MaxRecentReviewsLimit
	}
	return days, limit
}

var _ json.Marshaler = RatingDistribution(nil)
