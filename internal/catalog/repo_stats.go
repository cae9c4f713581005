package catalog

import (
	"context"
	"fmt"
	"time"
)

func (r *Repo) AverageRating(ctx context.Context, productID int64) (float64, error) {
	var avg float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8
		FROM reviews WHERE product_id=$1`, productID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average rating %d: %w", productID, err)
	}
	return avg, nil
}

func (r *Repo) RatingDistribution(ctx context.Context, productID int64) (RatingDistribution, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT rating, COUNT(*) FROM reviews
		WHERE product_id=$1
		GROUP BY rating
		ORDER BY rating DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("rating distribution %d: %w", productID, err)
	}
	defer rows.Close()

	out := RatingDistribution{}
	for rows.Next() {
		var rc RatingCount
		if err := rows.Scan(&rc.Rating, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *Repo) ProductStatistics(ctx context.Context, now time.Time) (ProductStatistics, error) {
	var s ProductStatistics
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(ROUND(AVG(price), 2), 0)::float8,
		       COALESCE(MAX(price), 0)::float8,
		       COALESCE(MIN(price), 0)::float8,
		       COUNT(*) FILTER (WHERE created_at >= $1)
		FROM products`, now.AddDate(0, 0, -StatisticsRecentDays),
	).Scan(&s.TotalProducts, &s.AveragePrice, &s.HighestPrice, &s.LowestPrice, &s.RecentProducts)
	if err != nil {
		return s, fmt.Errorf("product statistics: %w", err)
	}
	return s, nil
}

func (r *Repo) ReviewStatistics(ctx context.Context, now time.Time) (ReviewStatistics, error) {
	s := ReviewStatistics{TopReviewers: []TopReviewer{}}
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8,
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(comment)
		FROM reviews`, now.AddDate(0, 0, -StatisticsRecentDays),
	).Scan(&s.TotalReviews, &s.AverageRating, &s.RecentReviews, &s.ReviewsWithComments)
	if err != nil {
		return s, fmt.Errorf("review statistics: %w", err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT reviewer_name, COUNT(*) AS review_count
		FROM reviews
		GROUP BY reviewer_name
		ORDER BY review_count DESC, reviewer_name ASC
		LIMIT $1`, TopReviewersLimit)
	if err != nil {
		return s, fmt.Errorf("top reviewers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tr TopReviewer
		if err := rows.Scan(&tr.ReviewerName, &tr.ReviewCount); err != nil {
			return s, err
		}
		s.TopReviewers = append(s.TopReviewers, tr)
	}
	return s, rows.Err()
}
