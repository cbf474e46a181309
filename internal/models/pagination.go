package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// TotalPages is the number of pages for the current page size.
func (p Pagination) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount == 0 {
		return 1
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages() }

// ListOptions are the sort and paging controls shared by list pages.
type ListOptions struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
