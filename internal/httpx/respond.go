package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgValidation         = "Validation error"
	msgDuplicateReview    = "You have already reviewed this product."
	msgProductHasReviews  = "Cannot delete product with existing reviews."
	msgProductNotFound    = "Product not found."
	msgReviewNotFound     = "Review not found."
	msgTooManyRequests    = "Too many requests."
	msgInvalidRequestBody = "The request body is malformed or contains invalid values."
)

// envelope adalah bentuk response seragam untuk semua endpoint.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, code int, data any, msg string) {
	writeJSON(w, code, envelope{Success: true, Data: data, Message: msg})
}

func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Success: false, Message: msg})
}

// respondErr maps domain errors onto the status table. Anything unknown is a
// 500 carrying failMsg; the raw error is only exposed in debug mode.
func (h *CatalogHandler) respondErr(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, failMsg string) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Message: msgValidation, Errors: ve.Fields})
	case errors.Is(err, catalog.ErrNotFound):
		fail(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, catalog.ErrDuplicateReview):
		fail(w, http.StatusConflict, msgDuplicateReview)
	case errors.Is(err, catalog.ErrProductHasReviews):
		fail(w, http.StatusBadRequest, msgProductHasReviews)
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		env := envelope{Message: failMsg}
		if h.Debug {
			env.Error = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, env)
	}
}

// decodeJSON: body kosong dianggap object kosong; JSON rusak / tipe salah jadi 422.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	ve := &catalog.ValidationError{}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		ve.Add(typeErr.Field, "The "+humanize(typeErr.Field)+" field has an invalid type.")
		return ve
	}
	ve.Add("body", msgInvalidRequestBody)
	return ve
}
