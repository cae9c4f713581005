package httpx

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func humanize(field string) string { return strings.ReplaceAll(field, "_", " ") }

// queryParser membaca query string; param yang kosong dianggap tidak dikirim.
// Semua param yang formatnya salah dikumpulkan ke satu ValidationError.
type queryParser struct {
	q  url.Values
	ve catalog.ValidationError
}

func (p *queryParser) str(key string) string { return strings.TrimSpace(p.q.Get(key)) }

func (p *queryParser) optInt(key string) *int {
	s := p.str(key)
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		p.ve.Add(key, "The "+humanize(key)+" field must be an integer.")
		return nil
	}
	return &i
}

func (p *queryParser) intOr(key string, def int) int {
	if v := p.optInt(key); v != nil {
		return *v
	}
	return def
}

func (p *queryParser) optInt64(key string) *int64 {
	s := p.str(key)
	if s == "" {
		return nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.ve.Add(key, "The "+humanize(key)+" field must be an integer.")
		return nil
	}
	return &i
}

func (p *queryParser) optDecimal(key string) *decimal.Decimal {
	s := p.str(key)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.ve.Add(key, "The "+humanize(key)+" field must be a number.")
		return nil
	}
	return &d
}

func (p *queryParser) optDate(key string) *time.Time {
	s := p.str(key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		p.ve.Add(key, "The "+humanize(key)+" field must match the format Y-m-d.")
		return nil
	}
	return &t
}

// flag mengikuti aturan boolean form: 1/true/on/yes = true.
func (p *queryParser) flag(key string) bool {
	switch strings.ToLower(p.str(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func (p *queryParser) err() error { return p.ve.OrNil() }

func parseProductFilter(q url.Values) (catalog.ProductFilter, error) {
	p := &queryParser{q: q}
	f := catalog.ProductFilter{
		Search:    p.str("search"),
		MinPrice:  p.optDecimal("min_price"),
		MaxPrice:  p.optDecimal("max_price"),
		SortBy:    p.str("sort_by"),
		SortOrder: catalog.SortOrder(p.str("sort_order")),
		Page:      p.intOr("page", 1),
		PerPage:   p.intOr("per_page", catalog.DefaultPerPage),
	}
	if err := p.err(); err != nil {
		return f, err
	}
	return f.Normalize(), nil
}

func parseReviewFilter(q url.Values, now time.Time) (catalog.ReviewFilter, error) {
	p := &queryParser{q: q}
	f := catalog.ReviewFilter{
		ProductID:   p.optInt64("product_id"),
		MinRating:   p.optInt("min_rating"),
		MaxRating:   p.optInt("max_rating"),
		StartDate:   p.optDate("start_date"),
		EndDate:     p.optDate("end_date"),
		Search:      p.str("search"),
		SortBy:      p.str("sort_by"),
		SortOrder:   catalog.SortOrder(p.str("sort_order")),
		HighlyRated: p.flag("highly_rated"),
		Page:        p.intOr("page", 1),
		PerPage:     p.intOr("per_page", catalog.DefaultPerPage),
	}
	if days := p.optInt("recent_days"); days != nil {
		since := now.AddDate(0, 0, -*days)
		f.RecentSince = &since
	}
	if err := p.err(); err != nil {
		return f, err
	}
	return f.Normalize(), nil
}
