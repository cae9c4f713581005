package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
)

// productReviewsPerPage: halaman review di endpoint /products/{id}/reviews.
const productReviewsPerPage = 15

func (h *CatalogHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	f, err := parseReviewFilter(r.URL.Query(), h.now())
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, "Failed to retrieve reviews.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	page, err := h.Store.ListReviews(ctx, f)
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, "Failed to retrieve reviews.")
		return
	}
	ok(w, http.StatusOK, paginate(page, h.Resources.Reviews(page.Items)), "Reviews retrieved successfully.")
}

// createReview: validate -> product harus ada -> satu review per reviewer -> insert.
func (h *CatalogHandler) createReview(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to create review."

	var in catalog.ReviewInput
	err := decodeJSON(r, &in)
	if err == nil {
		in = in.Trimmed()
		err = in.Validate()
	}
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	in.ProductID = urlID(r)

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if _, err := h.Store.GetProduct(ctx, in.ProductID); err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	exists, err := h.Store.ReviewExists(ctx, in.ProductID, in.ReviewerName)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	if exists {
		h.respondErr(w, r, catalog.ErrDuplicateReview, msgProductNotFound, failMsg)
		return
	}

	rv, err := h.Store.CreateReview(ctx, in)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	h.afterWrite(r, catalog.EventReviewCreated, rv.ProductID, reviewPayload(rv))
	ok(w, http.StatusCreated, h.Resources.Review(*rv), "Review created successfully.")
}

func (h *CatalogHandler) showReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	rv, err := h.Store.GetReview(ctx, urlID(r))
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, "Failed to retrieve review.")
		return
	}
	ok(w, http.StatusOK, h.Resources.Review(*rv), "Review retrieved successfully.")
}

func (h *CatalogHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to update review."

	var patch catalog.ReviewPatch
	err := decodeJSON(r, &patch)
	if err == nil {
		patch = patch.Trimmed()
		err = patch.Validate()
	}
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	rv, err := h.Store.UpdateReview(ctx, urlID(r), patch)
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}
	if !patch.Empty() {
		h.afterWrite(r, catalog.EventReviewUpdated, rv.ProductID, reviewPayload(rv))
	}
	ok(w, http.StatusOK, h.Resources.Review(*rv), "Review updated successfully.")
}

func (h *CatalogHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to delete review."
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	// resolve dulu supaya product_id event diketahui
	rv, err := h.Store.GetReview(ctx, urlID(r))
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}
	if err := h.Store.DeleteReview(ctx, rv.ID); err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}
	h.afterWrite(r, catalog.EventReviewDeleted, rv.ProductID, catalog.ReviewPayload{ReviewID: rv.ID, ProductID: rv.ProductID})
	ok(w, http.StatusOK, nil, "Review deleted successfully.")
}

type productReviewsData struct {
	Product    ProductResource            `json:"product"`
	Reviews    Paginated[ReviewResource]  `json:"reviews"`
	Statistics catalog.ProductReviewStats `json:"statistics"`
}

func (h *CatalogHandler) productReviews(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to retrieve product reviews."

	p := &queryParser{q: r.URL.Query()}
	pageNo := p.intOr("page", 1)
	if err := p.err(); err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	product, err := h.Store.GetProduct(ctx, urlID(r))
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	page, err := h.Store.ListReviews(ctx, catalog.ReviewFilter{
		ProductID: &product.ID,
		SortBy:    "created_at",
		SortOrder: catalog.Desc,
		Page:      pageNo,
		PerPage:   productReviewsPerPage,
	}.Normalize())
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	avg, err := h.Store.AverageRating(ctx, product.ID)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	dist, err := h.Store.RatingDistribution(ctx, product.ID)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}

	ok(w, http.StatusOK, productReviewsData{
		Product: h.Resources.Product(*product),
		Reviews: paginate(page, h.Resources.Reviews(page.Items)),
		Statistics: catalog.ProductReviewStats{
			AverageRating:      avg,
			TotalReviews:       dist.Total(),
			RatingDistribution: dist,
		},
	}, "Product reviews retrieved successfully.")
}

func (h *CatalogHandler) recentReviews(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to retrieve recent reviews."

	p := &queryParser{q: r.URL.Query()}
	days, limit := catalog.ClampRecent(
		p.intOr("days", catalog.RecentReviewDays),
		p.intOr("limit", catalog.DefaultRecentLimit),
	)
	if err := p.err(); err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	reviews, err := h.Store.RecentReviews(ctx, h.now().AddDate(0, 0, -days), limit)
	if err != nil {
		h.respondErr(w, r, err, msgReviewNotFound, failMsg)
		return
	}
	ok(w, http.StatusOK, h.Resources.Reviews(reviews), "Recent reviews retrieved successfully.")
}

func (h *CatalogHandler) reviewStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	var stats catalog.ReviewStatistics
	if !h.cacheGet(ctx, redisx.KeyReviewStats, &stats) {
		var err error
		stats, err = h.Store.ReviewStatistics(ctx, h.now())
		if err != nil {
			h.respondErr(w, r, err, msgReviewNotFound, "Failed to retrieve review statistics.")
			return
		}
		h.cacheSet(ctx, redisx.KeyReviewStats, stats)
	}
	ok(w, http.StatusOK, stats, "Review statistics retrieved successfully.")
}

func reviewPayload(rv *catalog.Review) catalog.ReviewPayload {
	return catalog.ReviewPayload{ReviewID: rv.ID, ProductID: rv.ProductID, Rating: rv.Rating}
}
