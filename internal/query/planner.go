// Package query turns untrusted, caller-supplied listing parameters into a
// bounded store query plus the pagination metadata the storefront admin UI
// consumes. Malformed paging input falls back to defaults; a listing request
// is never rejected for bad paging values.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when the caller supplies none or
	// supplies garbage.
	DefaultLimit = 10

	// DefaultSortField orders results by creation time when the caller does
	// not ask for another field.
	DefaultSortField = "createdAt"
)

// Query is a normalized, bounded listing request.
type Query struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	Ascending bool
}

// Offset returns the zero-based item offset for the query's page window.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Plan normalizes raw URL query parameters into a Query. It accepts either
// page/limit or skip/limit paging; when skip is present it is converted to
// the equivalent 1-based page. Non-numeric or out-of-range values coerce to
// their defaults rather than failing.
func Plan(values url.Values) Query {
	limit := parseIntOr(values.Get("limit"), DefaultLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}

	page := parseIntOr(values.Get("page"), 1)
	if page < 1 {
		page = 1
	}

	// skip overrides page when the caller sends it, matching storefront
	// widgets that paginate by item offset instead of page number.
	if _, ok := values["skip"]; ok {
		skip := parseIntOr(values.Get("skip"), 0)
		if skip < 0 {
			skip = 0
		}
		page = skip/limit + 1
	}

	sortBy := strings.TrimSpace(values.Get("sortBy"))
	if sortBy == "" {
		sortBy = DefaultSortField
	}

	return Query{
		Page:      page,
		Limit:     limit,
		Search:    strings.TrimSpace(values.Get("search")),
		SortBy:    sortBy,
		Ascending: values.Get("sortOrder") == "asc",
	}
}

// Pagination is the metadata block returned alongside a page of orders.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// Paginate computes pagination metadata for a page of results. An empty
// result set still reports one page so UI page math stays stable, and a
// non-positive limit is clamped to the default before any division.
func Paginate(page, limit int, total int64) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalOrders: total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func parseIntOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}
