package catalog

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100

	HighlyRatedMin = 4
)

// Kolom sort yang diizinkan -> ekspresi SQL. Nilai lain diabaikan.
var productSortColumns = map[string]string{
	"name":           "p.name",
	"price":          "p.price",
	"created_at":     "p.created_at",
	"average_rating": "COALESCE(ra.avg_rating, 0)",
}

var reviewSortColumns = map[string]string{
	"rating":        "r.rating",
	"created_at":    "r.created_at",
	"reviewer_name": "r.reviewer_name",
}

// ProductFilter is the typed form of the product listing query string.
type ProductFilter struct {
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder SortOrder
	Page      int
	PerPage   int
}

// ReviewFilter is the typed form of the review listing query string.
// All conditions are ANDed; Search matches reviewer_name OR comment.
type ReviewFilter struct {
	ProductID   *int64
	MinRating   *int
	MaxRating   *int
	StartDate   *time.Time // inclusive, start of day
	EndDate     *time.Time // inclusive, whole day
	Search      string
	SortBy      string
	SortOrder   SortOrder
	HighlyRated bool
	RecentSince *time.Time
	Page        int
	PerPage     int
}

// Normalize applies defaults and clamps. An unknown sort_by falls back to
// the default ordering (created_at desc).
func (f ProductFilter) Normalize() ProductFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.SortBy, f.SortOrder = normalizeSort(f.SortBy, f.SortOrder, productSortColumns)
	f.Page, f.PerPage = normalizePaging(f.Page, f.PerPage)
	return f
}

func (f ReviewFilter) Normalize() ReviewFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.SortBy, f.SortOrder = normalizeSort(f.SortBy, f.SortOrder, reviewSortColumns)
	f.Page, f.PerPage = normalizePaging(f.Page, f.PerPage)
	return f
}

func normalizeSort(by string, order SortOrder, allowed map[string]string) (string, SortOrder) {
	if _, ok := allowed[by]; !ok {
		return "created_at", Desc
	}
	if SortOrder(strings.ToLower(string(order))) == Asc {
		return by, Asc
	}
	return by, Desc
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	// OFFSET dibatasi ke int4 supaya (page-1)*perPage tidak overflow
	if maxPage := math.MaxInt32/perPage + 1; page > maxPage {
		page = maxPage
	}
	return page, perPage
}

func (o SortOrder) sql() string {
	if o == Asc {
		return "ASC"
	}
	return "DESC"
}

func offset(page, perPage int) int { return (page - 1) * perPage }
