// Package listing holds the paging rules shared by every list operation.
package listing

// Bounds applied to incoming page and limit values.
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// Clamp normalizes a requested page and limit into the allowed bounds.
func Clamp(page, limit int64) (int64, int64) {
	if page < DefaultPage {
		page = DefaultPage
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

// Pagination is the paging block returned alongside list items.
type Pagination struct {
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
}

// NewPagination computes the block for a result set. A zero limit yields zero
// total pages.
func NewPagination(total, page, limit int64) *Pagination {
	p := &Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}
