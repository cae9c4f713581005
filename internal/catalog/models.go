package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       decimal.Decimal
	Image       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSummary adalah bentuk ringkas product yang ikut di-load bersama review.
type ProductSummary struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

type Review struct {
	ID           int64
	ProductID    int64
	ReviewerName string
	Rating       int
	Comment      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *ProductSummary // nil kalau product tidak di-load
}

// RatedProduct: product + agregat rating hasil join ke reviews.
type RatedProduct struct {
	Product
	Rating RatingSummary
}

type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,min=0,max=9999999.99"`
	Image       *string          `json:"image" validate:"omitempty,max=500"`
}

type ProductPatch struct {
	Name        Field[string]          `json:"name"`
	Description Field[string]          `json:"description"`
	Price       Field[decimal.Decimal] `json:"price"`
	Image       Field[string]          `json:"image"`
}

func (p ProductPatch) Empty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Price.Set && !p.Image.Set
}

type ReviewInput struct {
	ProductID    int64   `json:"-"`
	ReviewerName string  `json:"reviewer_name" validate:"required,max=100"`
	Rating       *int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment" validate:"omitempty,max=1000"`
}

type ReviewPatch struct {
	ReviewerName Field[string] `json:"reviewer_name"`
	Rating       Field[int]    `json:"rating"`
	Comment      Field[string] `json:"comment"`
}

func (p ReviewPatch) Empty() bool {
	return !p.ReviewerName.Set && !p.Rating.Set && !p.Comment.Set
}

type Page[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// From/To: nomor urut item pertama & terakhir di halaman ini (1-based), 0 kalau kosong.
func (p Page[T]) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

func (p Page[T]) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}
