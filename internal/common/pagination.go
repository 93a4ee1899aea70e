package common

import "net/http"

// Pagination describes the paging metadata returned alongside list payloads.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
}

// ParsePagination extracts page/perPage query parameters with sane defaults.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	q := r.URL.Query()
	page = AtoiDefault(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	perPage = AtoiDefault(q.Get("perPage"), defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	return page, perPage
}
