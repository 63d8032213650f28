package pagination

import (
	"math"
	"net/http"
	"strconv"
)

// Pagination is a 1-based page request
type Pagination struct {
	Page  int
	Limit int
}

// FromRequest reads ?page and ?limit. Missing or invalid values fall back to
// page 1 and defaultLimit; limit is capped at maxLimit and page so that
// Offset stays within int32.
func FromRequest(r *http.Request, defaultLimit, maxLimit int) Pagination {
	p := Pagination{Page: 1, Limit: defaultLimit}

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Limit > 0 {
		if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
			p.Page = maxPage
		}
	}
	return p
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
