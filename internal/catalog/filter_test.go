package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductFilter_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ProductFilter
		sortBy    string
		sortOrder SortOrder
		page      int
		perPage   int
	}{
		{"defaults", ProductFilter{}, "created_at", Desc, 1, 15},
		{"allowed column asc", ProductFilter{SortBy: "name", SortOrder: "ASC"}, "name", Asc, 1, 15},
		{"invalid order defaults to desc", ProductFilter{SortBy: "price", SortOrder: "sideways"}, "price", Desc, 1, 15},
		{"unknown column ignored", ProductFilter{SortBy: "bogus_field", SortOrder: Asc}, "created_at", Desc, 1, 15},
		{"per_page clamped", ProductFilter{PerPage: 101, Page: 4}, "created_at", Desc, 4, 100},
		{"non-positive paging", ProductFilter{PerPage: -1, Page: 0}, "created_at", Desc, 1, 15},
		{"huge page clamped", ProductFilter{PerPage: 100, Page: math.MaxInt64 / 10}, "created_at", Desc, math.MaxInt32/100 + 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.in.Normalize()
			assert.Equal(t, tt.sortBy, f.SortBy)
			assert.Equal(t, tt.sortOrder, f.SortOrder)
			assert.Equal(t, tt.page, f.Page)
			assert.Equal(t, tt.perPage, f.PerPage)
		})
	}
}

func TestReviewFilter_Normalize(t *testing.T) {
	f := ReviewFilter{SortBy: "average_rating", PerPage: 1000, Search: "  bob "}.Normalize()
	assert.Equal(t, "created_at", f.SortBy)
	assert.Equal(t, 100, f.PerPage)
	assert.Equal(t, "bob", f.Search)

	f = ReviewFilter{SortBy: "reviewer_name", SortOrder: Asc}.Normalize()
	assert.Equal(t, "reviewer_name", f.SortBy)
	assert.Equal(t, Asc, f.SortOrder)
}

func TestPageMeta(t *testing.T) {
	p := Page[int]{Items: []int{1, 2, 3}, Total: 23, Page: 3, PerPage: 10}
	assert.Equal(t, 3, p.LastPage())
	assert.Equal(t, 21, p.From())
	assert.Equal(t, 23, p.To())

	empty := Page[int]{Page: 1, PerPage: 15}
	assert.Equal(t, 1, empty.LastPage())
	assert.Equal(t, 0, empty.From())
	assert.Equal(t, 0, empty.To())
}

func TestHugePageKeepsOffsetPositive(t *testing.T) {
	f := ProductFilter{Page: math.MaxInt64 / 10, PerPage: 100}.Normalize()
	_, list := buildProductQueries(f)
	off := list.Args[len(list.Args)-1].(int)
	assert.GreaterOrEqual(t, off, 0)
	assert.LessOrEqual(t, off, math.MaxInt32)

	p := Page[int]{Items: []int{1}, Page: f.Page, PerPage: f.PerPage}
	assert.Positive(t, p.From())
	assert.Equal(t, p.From(), p.To())
}
