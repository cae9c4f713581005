package catalog

import (
	"fmt"
	"strings"
	"time"
)

// where mengumpulkan kondisi AND; tiap "?" diganti placeholder $n berurutan.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, vals ...any) {
	var b strings.Builder
	i := 0
	for _, c := range cond {
		if c == '?' && i < len(vals) {
			w.args = append(w.args, vals[i])
			fmt.Fprintf(&b, "$%d", len(w.args))
			i++
			continue
		}
		b.WriteRune(c)
	}
	w.conds = append(w.conds, b.String())
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an extra argument appended after the conditions.
func (w *where) next(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// likePattern escapes LIKE wildcards so the search term matches literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

type builtQuery struct {
	SQL  string
	Args []any
}

const productColumns = `p.id, p.name, p.description, p.price::text, p.image, p.created_at, p.updated_at`

func productWhere(f ProductFilter) *where {
	w := &where{}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add("(p.name ILIKE ? OR p.description ILIKE ?)", pat, pat)
	}
	if f.MinPrice != nil {
		w.add("p.price >= ?::numeric", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		w.add("p.price <= ?::numeric", f.MaxPrice.String())
	}
	return w
}

// buildProductQueries returns the COUNT query and the page query for f.
// f must already be normalized.
func buildProductQueries(f ProductFilter) (count, list builtQuery) {
	cw := productWhere(f)
	count = builtQuery{SQL: "SELECT COUNT(*) FROM products p" + cw.sql(), Args: cw.args}

	w := productWhere(f)
	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products p")
	if f.SortBy == "average_rating" {
		b.WriteString(" LEFT JOIN (SELECT product_id, AVG(rating) AS avg_rating FROM reviews GROUP BY product_id) ra ON ra.product_id = p.id")
	}
	b.WriteString(w.sql())
	dir := f.SortOrder.sql()
	fmt.Fprintf(&b, " ORDER BY %s %s, p.id %s", productSortColumns[f.SortBy], dir, dir)
	fmt.Fprintf(&b, " LIMIT %s OFFSET %s", w.next(f.PerPage), w.next(offset(f.Page, f.PerPage)))
	list = builtQuery{SQL: b.String(), Args: w.args}
	return count, list
}

const reviewColumns = `r.id, r.product_id, r.reviewer_name, r.rating, r.comment, r.created_at, r.updated_at`

const reviewWithProductColumns = reviewColumns + `, p.id, p.name, p.price::text`

func reviewWhere(f ReviewFilter) *where {
	w := &where{}
	if f.ProductID != nil {
		w.add("r.product_id = ?", *f.ProductID)
	}
	if f.MinRating != nil {
		w.add("r.rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		w.add("r.rating <= ?", *f.MaxRating)
	}
	if f.StartDate != nil {
		w.add("r.created_at >= ?", startOfDay(*f.StartDate))
	}
	if f.EndDate != nil {
		w.add("r.created_at < ?", startOfDay(*f.EndDate).AddDate(0, 0, 1))
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add("(r.reviewer_name ILIKE ? OR r.comment ILIKE ?)", pat, pat)
	}
	if f.HighlyRated {
		w.add("r.rating >= ?", HighlyRatedMin)
	}
	if f.RecentSince != nil {
		w.add("r.created_at >= ?", *f.RecentSince)
	}
	return w
}

func buildReviewQueries(f ReviewFilter) (count, list builtQuery) {
	cw := reviewWhere(f)
	count = builtQuery{SQL: "SELECT COUNT(*) FROM reviews r" + cw.sql(), Args: cw.args}

	w := reviewWhere(f)
	var b strings.Builder
	b.WriteString("SELECT " + reviewWithProductColumns + " FROM reviews r JOIN products p ON p.id = r.product_id")
	b.WriteString(w.sql())
	dir := f.SortOrder.sql()
	fmt.Fprintf(&b, " ORDER BY %s %s, r.id %s", reviewSortColumns[f.SortBy], dir, dir)
	fmt.Fprintf(&b, " LIMIT %s OFFSET %s", w.next(f.PerPage), w.next(offset(f.Page, f.PerPage)))
	list = builtQuery{SQL: b.String(), Args: w.args}
	return count, list
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
