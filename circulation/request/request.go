package request

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Sort orders offered by the facets.
const (
	OrderTitle  = "title"
	OrderAuthor = "author"
	OrderAdded  = "added"
)

var orders = []string{OrderTitle, OrderAuthor, OrderAdded}

// Pagination selects one page of a result list.
type Pagination struct {
	Offset int
	Size   int
}

// Facets narrow and order a result list.
type Facets struct {
	Order string
}

// LoadPagination reads a positive "size" (default 50, at most 100) and a non-negative "after" offset (default 0).
func LoadPagination(params url.Values) (Pagination, error) {
	p := Pagination{Offset: 0, Size: DefaultPageSize}

	if raw := params.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Pagination{}, problem.Detailed(problem.InvalidInput, "Invalid size: "+raw)
		}

		p.Size = min(size, MaxPageSize)
	}

	if raw := params.Get("after"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Pagination{}, problem.Detailed(problem.InvalidInput, "Invalid offset: "+raw)
		}

		p.Offset = offset
	}

	return p, nil
}

// Next returns the pagination of the following page.
func (p Pagination) Next() Pagination {
	return Pagination{Offset: p.Offset + p.Size, Size: p.Size}
}

// LoadFacets reads "order", which defaults to author.
func LoadFacets(params url.Values) (Facets, error) {
	order := params.Get("order")
	if order == "" {
		return Facets{Order: OrderAuthor}, nil
	}

	if !slices.Contains(orders, order) {
		return Facets{}, problem.Detailed(problem.InvalidInput, "I don't know how to order a feed by '"+order+"'")
	}

	return Facets{Order: order}, nil
}
