package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print product and review statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type statsReport struct {
	Products catalog.ProductStatistics `json:"products"`
	Reviews  catalog.ReviewStatistics  `json:"reviews"`
}

func runStats(ctx context.Context) error {
	repo, pool, err := openRepo(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	now := time.Now()
	var rep statsReport
	if rep.Products, err = repo.ProductStatistics(ctx, now); err != nil {
		return err
	}
	if rep.Reviews, err = repo.ReviewStatistics(ctx, now); err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Products\t%d\n", rep.Products.TotalProducts)
	fmt.Fprintf(w, "  average price\t%.2f\n", rep.Products.AveragePrice)
	fmt.Fprintf(w, "  price range\t%.2f - %.2f\n", rep.Products.LowestPrice, rep.Products.HighestPrice)
	fmt.Fprintf(w, "  added last %d days\t%d\n", catalog.StatisticsRecentDays, rep.Products.RecentProducts)
	fmt.Fprintf(w, "Reviews\t%d\n", rep.Reviews.TotalReviews)
	fmt.Fprintf(w, "  average rating\t%.2f\n", rep.Reviews.AverageRating)
	fmt.Fprintf(w, "  with comments\t%d\n", rep.Reviews.ReviewsWithComments)
	fmt.Fprintf(w, "  added last %d days\t%d\n", catalog.StatisticsRecentDays, rep.Reviews.RecentReviews)
	for _, tr := range rep.Reviews.TopReviewers {
		fmt.Fprintf(w, "  %s\t%d\n", tr.ReviewerName, tr.ReviewCount)
	}
	return w.Flush()
}
