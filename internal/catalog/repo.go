package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repo struct{ DB *pgxpool.Pool }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return p, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d
	return p, nil
}

func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) (Page[Product], error) {
	f = f.Normalize()
	page := Page[Product]{Page: f.Page, PerPage: f.PerPage, Items: []Product{}}

	countQ, listQ := buildProductQueries(f)
	if err := r.DB.QueryRow(ctx, countQ.SQL, countQ.Args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.DB.Query(ctx, listQ.SQL, listQ.Args...)
	if err != nil {
		return page, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return page, err
		}
		page.Items = append(page.Items, p)
	}
	return page, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	price := decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products AS p (name, description, price, image)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING `+productColumns,
		in.Name, in.Description, price.String(), in.Image,
	))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

// UpdateProduct hanya meng-update field yang dikirim (partial update).
func (r *Repo) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*Product, error) {
	if patch.Empty() {
		return r.GetProduct(ctx, id)
	}

	sets := []string{}
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name.Set {
		set("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set("description", patch.Description.Ptr())
	}
	if patch.Price.Set {
		args = append(args, patch.Price.Value.String())
		sets = append(sets, fmt.Sprintf("price = $%d::numeric", len(args)))
	}
	if patch.Image.Set {
		set("image", patch.Image.Ptr())
	}
	sets = append(sets, "updated_at = now()")

	p, err := scanProduct(r.DB.QueryRow(ctx,
		`UPDATE products AS p SET `+strings.Join(sets, ", ")+` WHERE p.id = $1 RETURNING `+productColumns,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &p, nil
}

// DeleteProduct: lock row product (FOR UPDATE) -> cek review -> delete.
// Insert review baru ke product ini ikut tertahan sampai commit (FK lock).
func (r *Repo) DeleteProduct(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id=$1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock product %d: %w", id, err)
	}

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id=$1`, id).Scan(&n); err != nil {
		return fmt.Errorf("count reviews: %w", err)
	}
	if n > 0 {
		return ErrProductHasReviews
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return tx.Commit(ctx)
}

func (r *Repo) TopRated(ctx context.Context, minReviews, limit int) ([]RatedProduct, error) {
	minReviews, limit = ClampTopRated(minReviews, limit)
	rows, err := r.DB.Query(ctx, `
		SELECT `+productColumns+`,
		       ROUND(AVG(r.rating)::numeric, 2)::float8 AS avg_rating,
		       COUNT(r.id) AS reviews_count
		FROM products p
		JOIN reviews r ON r.product_id = p.id
		GROUP BY p.id
		HAVING AVG(r.rating) >= $1::float8 AND COUNT(r.id) >= $2
		ORDER BY AVG(r.rating) DESC, p.id ASC
		LIMIT $3`,
		TopRatedMinAverage, minReviews, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	defer rows.Close()

	out := []RatedProduct{}
	for rows.Next() {
		var (
			rp    RatedProduct
			price string
		)
		if err := rows.Scan(&rp.ID, &rp.Name, &rp.Description, &price, &rp.Image, &rp.CreatedAt, &rp.UpdatedAt,
			&rp.Rating.AverageRating, &rp.Rating.ReviewsCount); err != nil {
			return nil, err
		}
		if rp.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price %q: %w", price, err)
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

// mapWriteErr menerjemahkan constraint violation ke error domain.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrDuplicateReview
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}
