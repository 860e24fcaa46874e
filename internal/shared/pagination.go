package shared

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage applies when the caller omits or zeroes per_page.
	DefaultPerPage = 15
	// MaxPerPage caps page size regardless of what the caller asks for.
	MaxPerPage = 100
)

// SearchInput is the standard pagination/filter/sort request for listings.
// CompanyID is injected from the caller context, never from the request body.
type SearchInput struct {
	Page      int
	PerPage   int
	SortBy    string
	SortDir   string
	Filter    string
	CompanyID string
}

// SearchOutput is the standard paginated listing response.
type SearchOutput[T any] struct {
	Items       []T    `json:"items"`
	Total       int    `json:"total"`
	CurrentPage int    `json:"current_page"`
	PerPage     int    `json:"per_page"`
	SortBy      string `json:"sort_by"`
	SortDir     string `json:"sort_dir"`
	Filter      string `json:"filter"`
}

// Normalize clamps paging values and the sort direction to sane bounds.
func (in SearchInput) Normalize() SearchInput {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PerPage <= 0 {
		in.PerPage = DefaultPerPage
	}
	if in.PerPage > MaxPerPage {
		in.PerPage = MaxPerPage
	}
	if in.SortDir != "asc" && in.SortDir != "desc" {
		in.SortDir = "desc"
	}
	return in
}

// Offset returns the row offset for the normalized input.
func (in SearchInput) Offset() int {
	return (in.Page - 1) * in.PerPage
}

// SearchInputFromRequest builds a SearchInput from the querystring, injecting
// the caller's tenant. CompanyID never comes from the request itself.
func SearchInputFromRequest(r *http.Request, companyID string) SearchInput {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return SearchInput{
		Page:      page,
		PerPage:   perPage,
		SortBy:    q.Get("sort_by"),
		SortDir:   q.Get("sort_dir"),
		Filter:    q.Get("filter"),
		CompanyID: companyID,
	}
}
