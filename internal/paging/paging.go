// Package paging tracks the 1-based page index consumed by a paged fetch
// collaborator. The controller never fetches data itself; callers feed it
// the HasNext flag from the page they received.
package paging

// DefaultPageSize is the page size used by list views when none is configured.
const DefaultPageSize = 20

// Controller maintains a 1-based current page with a fixed page size.
type Controller struct {
	currentPage int
	pageSize    int
}

// NewController creates a controller positioned on page 1.
// A non-positive pageSize falls back to DefaultPageSize.
func NewController(pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller{currentPage: 1, pageSize: pageSize}
}

// CurrentPage returns the current 1-based page index.
func (c *Controller) CurrentPage() int {
	return c.currentPage
}

// PageSize returns the fixed page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Offset returns the record offset for the current page.
func (c *Controller) Offset() int {
	return (c.currentPage - 1) * c.pageSize
}

// Previous moves back one page, clamping at page 1.
func (c *Controller) Previous() {
	if c.currentPage > 1 {
		c.currentPage--
	}
}

// Next advances one page only when the current page reports more data;
// otherwise it is a no-op.
func (c *Controller) Next(hasNext bool) {
	if hasNext {
		c.currentPage++
	}
}

// TotalPages returns the displayed page count for total records:
// ceil(total/pageSize), with zero records yielding zero pages.
func (c *Controller) TotalPages(total int64) int {
	return TotalPages(total, c.pageSize)
}

// TotalPages computes ceil(total/pageSize) without floating point.
// total <= 0 yields 0; a non-positive pageSize is treated as 1.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize < 1 {
		pageSize = 1
	}
	denom := int64(pageSize)
	return int((total + denom - 1) / denom)
}

// HasNext reports whether records remain beyond the given 1-based page.
func HasNext(total int64, page, pageSize int) bool {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return int64(page*pageSize) < total
}
