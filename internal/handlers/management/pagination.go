package mngmt

// Pagination is the self-describing page envelope returned by listings.
type Pagination struct {
	TotalCount  int64 `json:"total_count"`
	PageNumber  int   `json:"page_number"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPagination normalizes the requested page and derives the metadata.
// Page numbers are one-based; out-of-range sizes fall back to defaults.
func NewPagination(total int64, pageNumber, pageSize int) Pagination {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return Pagination{
		TotalCount:  total,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     pageNumber < totalPages,
		HasPrevious: pageNumber > 1 && total > 0,
	}
}

// Offset converts the page coordinates into a query offset.
func (p Pagination) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
