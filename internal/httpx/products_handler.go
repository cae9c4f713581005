package httpx

import (
	"context"
	"log"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/redisx"
	"github.com/shopspring/decimal"
)

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	f, err := parseProductFilter(r.URL.Query())
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, "Failed to retrieve products.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	page, err := h.Store.ListProducts(ctx, f)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, "Failed to retrieve products.")
		return
	}
	ok(w, http.StatusOK, paginate(page, h.Resources.Products(page.Items)), "Products retrieved successfully.")
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to create product."

	in, err := h.readProductInput(r)
	if err == nil {
		in = in.Trimmed()
		err = in.Validate()
	}
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}

	var uploaded string
	if r.MultipartForm != nil {
		if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
			p, err := saveImage(h.StorageDir, fhs[0])
			if err != nil {
				h.respondErr(w, r, err, msgProductNotFound, failMsg)
				return
			}
			in.Image = &p
			uploaded = imageFile(h.StorageDir, p)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	p, err := h.Store.CreateProduct(ctx, in)
	if err != nil {
		// insert gagal: jangan tinggalkan file yatim di storage
		if uploaded != "" {
			if rmErr := os.Remove(uploaded); rmErr != nil {
				log.Printf("[catalog] remove orphan image %s: %v", uploaded, rmErr)
			}
		}
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	h.afterWrite(r, catalog.EventProductCreated, p.ID, productPayload(p))
	ok(w, http.StatusCreated, h.Resources.Product(*p), "Product created successfully.")
}

// readProductInput menerima JSON atau multipart/form-data (dengan file "image").
func (h *CatalogHandler) readProductInput(r *http.Request) (catalog.ProductInput, error) {
	var in catalog.ProductInput
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return in, decodeJSON(r, &in)
	}

	ve := &catalog.ValidationError{}
	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		ve.Add("body", msgInvalidRequestBody)
		return in, ve
	}
	form := r.MultipartForm.Value
	in.Name = strings.TrimSpace(first(form["name"]))
	if v, ok := form["description"]; ok && len(v) > 0 && v[0] != "" {
		in.Description = &v[0]
	}
	if s := strings.TrimSpace(first(form["price"])); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			ve.Add("price", "The price field must be a number.")
		} else {
			in.Price = &d
		}
	}
	if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
		if msg := validImage(fhs[0]); msg != "" {
			ve.Add("image", msg)
		}
	} else if v := first(form["image"]); v != "" {
		in.Image = &v
	}
	if err := ve.OrNil(); err != nil {
		return in, err
	}
	return in, nil
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (h *CatalogHandler) showProduct(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to retrieve product."
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	p, err := h.Store.GetProduct(ctx, urlID(r))
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	reviews, err := h.Store.ReviewsForProduct(ctx, p.ID)
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	ok(w, http.StatusOK, h.Resources.ProductWithReviews(*p, reviews), "Product retrieved successfully.")
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to update product."

	var patch catalog.ProductPatch
	err := decodeJSON(r, &patch)
	if err == nil {
		patch = patch.Trimmed()
		err = patch.Validate()
	}
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	// patch kosong: cukup pastikan product ada, tidak ada write
	var p *catalog.Product
	if patch.Empty() {
		p, err = h.Store.GetProduct(ctx, urlID(r))
	} else {
		p, err = h.Store.UpdateProduct(ctx, urlID(r), patch)
	}
	if err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}
	if !patch.Empty() {
		h.afterWrite(r, catalog.EventProductUpdated, p.ID, productPayload(p))
	}
	ok(w, http.StatusOK, h.Resources.Product(*p), "Product updated successfully.")
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	id := urlID(r)
	if err := h.Store.DeleteProduct(ctx, id); err != nil {
		h.respondErr(w, r, err, msgProductNotFound, "Failed to delete product.")
		return
	}
	h.afterWrite(r, catalog.EventProductDeleted, id, catalog.ProductPayload{ProductID: id})
	ok(w, http.StatusOK, nil, "Product deleted successfully.")
}

func (h *CatalogHandler) topRated(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to retrieve top-rated products."

	p := &queryParser{q: r.URL.Query()}
	minReviews, limit := catalog.ClampTopRated(
		p.intOr("min_reviews", catalog.DefaultTopRatedMin),
		p.intOr("limit", catalog.DefaultTopRatedLimit),
	)
	if err := p.err(); err != nil {
		h.respondErr(w, r, err, msgProductNotFound, failMsg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	key := redisx.TopRatedKey(minReviews, limit)
	var res []ProductResource
	if !h.cacheGet(ctx, key, &res) {
		rated, err := h.Store.TopRated(ctx, minReviews, limit)
		if err != nil {
			h.respondErr(w, r, err, msgProductNotFound, failMsg)
			return
		}
		res = h.Resources.RatedProducts(rated)
		h.cacheSet(ctx, key, res)
	}
	ok(w, http.StatusOK, res, "Top-rated products retrieved successfully.")
}

func (h *CatalogHandler) productStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	var stats catalog.ProductStatistics
	if !h.cacheGet(ctx, redisx.KeyProductStats, &stats) {
		var err error
		stats, err = h.Store.ProductStatistics(ctx, h.now())
		if err != nil {
			h.respondErr(w, r, err, msgProductNotFound, "Failed to retrieve statistics.")
			return
		}
		h.cacheSet(ctx, redisx.KeyProductStats, stats)
	}
	ok(w, http.StatusOK, stats, "Statistics retrieved successfully.")
}

func productPayload(p *catalog.Product) catalog.ProductPayload {
	return catalog.ProductPayload{ProductID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2)}
}
