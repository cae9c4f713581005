package commands

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// Seed flags
	reset    bool
	seedSalt uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog",
	Long: `Insert 15 sample products with 2 to 4 reviews each.

Reviewers are drawn without repetition per product, so the
one-review-per-reviewer rule always holds.

Examples:
  catalogctl seed                  # Append sample data
  catalogctl seed --reset          # Wipe products and reviews first
  catalogctl seed --rand-seed 42   # Reproducible review assignment`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&reset, "reset", false, "Delete existing products and reviews before seeding")
	seedCmd.Flags().Uint64Var(&seedSalt, "rand-seed", 0, "Random seed for review assignment (0 = random)")
}

type sampleProduct struct {
	name, description, price, image string
}

type sampleReview struct {
	reviewer string
	rating   int
	comment  string
}

var sampleProducts = []sampleProduct{
	{"iPhone 15 Pro", "Latest iPhone with A17 Pro chip and titanium design", "999.99", "images/products/iphone15.jpg"},
	{"Samsung Galaxy S24", "AI-powered smartphone with amazing camera", "899.99", "images/products/galaxy-s24.jpg"},
	{`MacBook Pro 16"`, "Professional laptop with M3 Max chip", "2499.99", "images/products/macbook-pro.jpg"},
	{"Sony WH-1000XM5", "Noise cancelling wireless headphones", "349.99", "images/products/sony-headphones.jpg"},
	{"iPad Air", "Powerful tablet with M1 chip", "599.99", "images/products/ipad-air.jpg"},
	{"Dell XPS 13", "Ultra-thin laptop with InfinityEdge display", "1199.99", "images/products/dell-xps.jpg"},
	{"Apple Watch Series 9", "Smartwatch with health monitoring features", "399.99", "images/products/apple-watch.jpg"},
	{"Bose QuietComfort", "Premium noise cancelling earbuds", "279.99", "images/products/bose-earbuds.jpg"},
	{"Google Pixel 8 Pro", "Android phone with best-in-class camera", "799.99", "images/products/pixel-8.jpg"},
	{"PlayStation 5", "Next-gen gaming console", "499.99", "images/products/ps5.jpg"},
	{"Xbox Series X", "Powerful gaming console with 4K gaming", "499.99", "images/products/xbox.jpg"},
	{"Nintendo Switch OLED", "Hybrid gaming console", "349.99", "images/products/switch.jpg"},
	{"Samsung 4K TV", "55-inch 4K Smart TV with HDR", "699.99", "images/products/samsung-tv.jpg"},
	{"LG OLED TV", "65-inch OLED TV with perfect blacks", "1799.99", "images/products/lg-tv.jpg"},
	{"Dyson V15 Vacuum", "Cordless vacuum with laser detection", "749.99", "images/products/dyson.jpg"},
}

var sampleReviews = []sampleReview{
	{"John Doe", 5, "Excellent product!"},
	{"Jane Smith", 4, "Very good, but a bit expensive"},
	{"Mike Johnson", 5, "Best purchase ever!"},
	{"Sarah Williams", 3, "Good but could be better"},
	{"David Brown", 4, "Satisfied with my purchase"},
	{"Emily Davis", 5, "Absolutely love it!"},
	{"Chris Wilson", 2, "Had some issues"},
	{"Lisa Taylor", 4, "Great value for money"},
	{"Kevin Moore", 5, "Exceeded my expectations"},
	{"Amy Anderson", 3, "Average product"},
}

func runSeed(ctx context.Context) error {
	repo, pool, err := openRepo(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if reset {
		if _, err := pool.Exec(ctx, `TRUNCATE reviews, products RESTART IDENTITY`); err != nil {
			return fmt.Errorf("reset catalog: %w", err)
		}
	}

	rng := rand.New(rand.NewPCG(seedSalt, seedSalt^0x9e3779b97f4a7c15))
	if seedSalt == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	reviews := 0
	for _, sp := range sampleProducts {
		in := catalog.ProductInput{
			Name:        sp.name,
			Description: &sp.description,
			Price:       ptr(decimal.RequireFromString(sp.price)),
			Image:       &sp.image,
		}
		p, err := repo.CreateProduct(ctx, in)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", sp.name, err)
		}

		n := 2 + rng.IntN(3)
		for _, idx := range rng.Perm(len(sampleReviews))[:n] {
			sr := sampleReviews[idx]
			_, err := repo.CreateReview(ctx, catalog.ReviewInput{
				ProductID:    p.ID,
				ReviewerName: sr.reviewer,
				Rating:       ptr(sr.rating),
				Comment:      ptr(sr.comment),
			})
			if err != nil {
				return fmt.Errorf("seed review for %q: %w", sp.name, err)
			}
			reviews++
		}
	}

	fmt.Printf("seeded %d products with %d reviews\n", len(sampleProducts), reviews)
	return nil
}

func ptr[T any](v T) *T { return &v }
