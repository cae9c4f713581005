package httpx

import (
	"strings"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const timestampLayout = "2006-01-02 15:04:05"

const productImageDir = "images/products/"

// ProductResource is the external shape of a product. AverageRating,
// ReviewsCount and Reviews are set only when review data was loaded.
type ProductResource struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Description    *string           `json:"description"`
	Price          string            `json:"price"`
	FormattedPrice string            `json:"formatted_price"`
	Image          *string           `json:"image"`
	AverageRating  *float64          `json:"average_rating,omitempty"`
	ReviewsCount   *int              `json:"reviews_count,omitempty"`
	Reviews        *[]ReviewResource `json:"reviews,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

type ProductSummaryResource struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type ReviewResource struct {
	ID              int64                   `json:"id"`
	ProductID       int64                   `json:"product_id"`
	ReviewerName    string                  `json:"reviewer_name"`
	Rating          int                     `json:"rating"`
	Comment         *string                 `json:"comment"`
	FormattedRating string                  `json:"formatted_rating"`
	IsRecent        bool                    `json:"is_recent"`
	Product         *ProductSummaryResource `json:"product,omitempty"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"`
	To          int `json:"to"`
}

type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// Transformer maps catalog rows to resources. Now drives is_recent.
type Transformer struct {
	AssetURL string
	Now      func() time.Time
}

func (t Transformer) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t Transformer) Product(p catalog.Product) ProductResource {
	return ProductResource{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		FormattedPrice: FormatPrice(p.Price),
		Image:          ImageURL(t.AssetURL, p.Image),
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
}

func (t Transformer) Products(ps []catalog.Product) []ProductResource {
	out := make([]ProductResource, 0, len(ps))
	for _, p := range ps {
		out = append(out, t.Product(p))
	}
	return out
}

// ProductWithReviews renders a product whose reviews were eagerly loaded.
func (t Transformer) ProductWithReviews(p catalog.Product, reviews []catalog.Review) ProductResource {
	res := t.withRating(t.Product(p), catalog.SummarizeReviews(reviews))
	rr := t.Reviews(reviews)
	res.Reviews = &rr
	return res
}

func (t Transformer) RatedProducts(ps []catalog.RatedProduct) []ProductResource {
	out := make([]ProductResource, 0, len(ps))
	for _, rp := range ps {
		out = append(out, t.withRating(t.Product(rp.Product), rp.Rating))
	}
	return out
}

func (t Transformer) withRating(res ProductResource, s catalog.RatingSummary) ProductResource {
	avg, n := s.AverageRating, s.ReviewsCount
	res.AverageRating = &avg
	res.ReviewsCount = &n
	return res
}

func (t Transformer) Review(rv catalog.Review) ReviewResource {
	res := ReviewResource{
		ID:              rv.ID,
		ProductID:       rv.ProductID,
		ReviewerName:    rv.ReviewerName,
		Rating:          rv.Rating,
		Comment:         rv.Comment,
		FormattedRating: Stars(rv.Rating),
		IsRecent:        rv.CreatedAt.After(t.now().AddDate(0, 0, -catalog.RecentReviewDays)),
		CreatedAt:       formatTime(rv.CreatedAt),
		UpdatedAt:       formatTime(rv.UpdatedAt),
	}
	if rv.Product != nil {
		res.Product = &ProductSummaryResource{
			ID:    rv.Product.ID,
			Name:  rv.Product.Name,
			Price: rv.Product.Price.StringFixed(2),
		}
	}
	return res
}

func (t Transformer) Reviews(rs []catalog.Review) []ReviewResource {
	out := make([]ReviewResource, 0, len(rs))
	for _, rv := range rs {
		out = append(out, t.Review(rv))
	}
	return out
}

func paginate[T, R any](p catalog.Page[T], items []R) Paginated[R] {
	return Paginated[R]{
		Data: items,
		Meta: PageMeta{
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			Total:       p.Total,
			LastPage:    p.LastPage(),
			From:        p.From(),
			To:          p.To(),
		},
	}
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders "$" + 2 decimals with thousands separators: $1,234.50.
func FormatPrice(d decimal.Decimal) string {
	return "$" + pricePrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// ImageURL resolves the stored image reference to a public URL.
func ImageURL(assetURL string, image *string) *string {
	if image == nil || *image == "" {
		return nil
	}
	img := *image
	var u string
	switch {
	case strings.HasPrefix(img, "http"):
		u = img
	case strings.HasPrefix(img, "storage/"), strings.HasPrefix(img, productImageDir):
		u = asset(assetURL, img)
	default:
		u = asset(assetURL, productImageDir+img)
	}
	return &u
}

func asset(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Stars: ★ sebanyak rating, sisanya ☆ sampai 5.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func formatTime(t time.Time) string { return t.UTC().Format(timestampLayout) }
