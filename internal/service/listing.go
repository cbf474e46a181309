package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginate slices an already filtered and sorted list.
func paginate[T any](items []T, opts models.ListOptions) ([]T, *models.Pagination) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(items)}
	if last := pagination.TotalPages(); page > last {
		page = last
		pagination.Page = page
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, pagination
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pagination
}

// sortItems sorts in place by the comparator registered for opts.SortBy, falling back
// to fallback. Unknown keys keep server order.
func sortItems[T any](items []T, opts models.ListOptions, keys map[string]func(a, b T) bool, fallback string) {
	key := opts.SortBy
	less, ok := keys[key]
	if !ok {
		less, ok = keys[fallback]
		if !ok {
			return
		}
	}
	desc := strings.EqualFold(opts.SortOrder, "desc")
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// filterItems returns the items keep accepts.
func filterItems[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// matchesSearch reports whether any field contains the search term, ignoring case.
func matchesSearch(search string, fields ...string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
