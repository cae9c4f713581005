package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func scanReview(row rowScanner) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.ReviewerName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

// scanReviewWithProduct membaca kolom review + ringkasan product (id, name, price).
func scanReviewWithProduct(row rowScanner) (Review, error) {
	var (
		rv    Review
		ps    ProductSummary
		price string
	)
	if err := row.Scan(&rv.ID, &rv.ProductID, &rv.ReviewerName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
		&ps.ID, &ps.Name, &price); err != nil {
		return rv, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return rv, fmt.Errorf("parse price %q: %w", price, err)
	}
	ps.Price = d
	rv.Product = &ps
	return rv, nil
}

func collectReviews(rows pgx.Rows, scan func(rowScanner) (Review, error)) ([]Review, error) {
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		rv, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListReviews(ctx context.Context, f ReviewFilter) (Page[Review], error) {
	f = f.Normalize()
	page := Page[Review]{Page: f.Page, PerPage: f.PerPage, Items: []Review{}}

	countQ, listQ := buildReviewQueries(f)
	if err := r.DB.QueryRow(ctx, countQ.SQL, countQ.Args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count reviews: %w", err)
	}
	rows, err := r.DB.Query(ctx, listQ.SQL, listQ.Args...)
	if err != nil {
		return page, fmt.Errorf("list reviews: %w", err)
	}
	items, err := collectReviews(rows, scanReviewWithProduct)
	if err != nil {
		return page, err
	}
	page.Items = items
	return page, nil
}

// ReviewsForProduct dipakai saat product di-load bersama semua review-nya.
func (r *Repo) ReviewsForProduct(ctx context.Context, productID int64) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+reviewColumns+` FROM reviews r
		WHERE r.product_id=$1 ORDER BY r.created_at DESC, r.id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("reviews for product %d: %w", productID, err)
	}
	return collectReviews(rows, scanReview)
}

func (r *Repo) GetReview(ctx context.Context, id int64) (*Review, error) {
	rv, err := scanReviewWithProduct(r.DB.QueryRow(ctx, `SELECT `+reviewWithProductColumns+`
		FROM reviews r JOIN products p ON p.id = r.product_id WHERE r.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return &rv, nil
}

func (r *Repo) ReviewExists(ctx context.Context, productID int64, reviewerName string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id=$1 AND reviewer_name=$2)`,
		productID, reviewerName).Scan(&ok)
	return ok, err
}

// CreateReview: unique (product_id, reviewer_name) di DB yang jadi penentu akhir;
// pre-check di handler hanya fast-path.
func (r *Repo) CreateReview(ctx context.Context, in ReviewInput) (*Review, error) {
	rating := 0
	if in.Rating != nil {
		rating = *in.Rating
	}
	rv, err := scanReviewWithProduct(r.DB.QueryRow(ctx, `
		WITH r AS (
			INSERT INTO reviews (product_id, reviewer_name, rating, comment)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT `+reviewWithProductColumns+` FROM r JOIN products p ON p.id = r.product_id`,
		in.ProductID, in.ReviewerName, rating, in.Comment,
	))
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &rv, nil
}

func (r *Repo) UpdateReview(ctx context.Context, id int64, patch ReviewPatch) (*Review, error) {
	if patch.Empty() {
		return r.GetReview(ctx, id)
	}

	sets := []string{}
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.ReviewerName.Set {
		set("reviewer_name", patch.ReviewerName.Value)
	}
	if patch.Rating.Set {
		set("rating", patch.Rating.Value)
	}
	if patch.Comment.Set {
		set("comment", patch.Comment.Ptr())
	}
	sets = append(sets, "updated_at = now()")

	rv, err := scanReviewWithProduct(r.DB.QueryRow(ctx, `
		WITH r AS (
			UPDATE reviews SET `+strings.Join(sets, ", ")+` WHERE id = $1
			RETURNING *
		)
		SELECT `+reviewWithProductColumns+` FROM r JOIN products p ON p.id = r.product_id`,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return &rv, nil
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) RecentReviews(ctx context.Context, since time.Time, limit int) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+reviewWithProductColumns+`
		FROM reviews r JOIN products p ON p.id = r.product_id
		WHERE r.created_at >= $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	return collectReviews(rows, scanReviewWithProduct)
}
