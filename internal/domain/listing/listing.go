// Package listing implements the search, filter and sort contract shared by
// every list view: clients, files, invoices, payments, statements and
// expenses.
package listing

import (
	"sort"
	"strings"
)

// Query is the list state a view sends: free-text search, zero or more
// equality filters, a sort key and paging.
type Query struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	SortBy  string            `json:"sort_by,omitempty"`
	Desc    bool              `json:"desc,omitempty"`
	Limit   int               `json:"limit,omitempty"`
	Offset  int               `json:"offset,omitempty"`
}

// Result is one page of a filtered, sorted list
type Result[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Schema describes how records of type T are searched, filtered and sorted.
type Schema[T any] struct {
	// SearchFields are matched case-insensitively against Query.Search.
	SearchFields []func(T) string

	// Filters maps a filter name to the record field it compares against.
	Filters map[string]func(T) string

	// Aliases maps a filter name to shorthand values, e.g. stage "active"
	// standing for status "Active Client".
	Aliases map[string]map[string]string

	StringSorts map[string]func(T) string
	NumberSorts map[string]func(T) float64
}

// Apply filters, sorts and pages records. The input slice is not modified.
func (s Schema[T]) Apply(records []T, q Query) Result[T] {
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if s.Matches(r, q) {
			matched = append(matched, r)
		}
	}

	s.Sort(matched, q.SortBy, q.Desc)

	return Result[T]{
		Items: page(matched, q.Offset, q.Limit),
		Total: len(matched),
	}
}

// Matches reports whether r passes the search term and every active filter.
func (s Schema[T]) Matches(r T, q Query) bool {
	if term := strings.TrimSpace(q.Search); term != "" {
		if !s.matchesSearch(r, strings.ToLower(term)) {
			return false
		}
	}

	for name, want := range q.Filters {
		if IsAll(want) {
			continue
		}
		field, ok := s.Filters[name]
		if !ok {
			continue
		}
		if alias, ok := s.Aliases[name][strings.ToLower(want)]; ok {
			want = alias
		}
		if !strings.EqualFold(field(r), want) {
			return false
		}
	}

	return true
}

func (s Schema[T]) matchesSearch(r T, term string) bool {
	for _, field := range s.SearchFields {
		if strings.Contains(strings.ToLower(field(r)), term) {
			return true
		}
	}
	return false
}

// Sort orders records in place by the named key. Unknown keys leave the
// order unchanged.
func (s Schema[T]) Sort(records []T, sortBy string, desc bool) {
	if key, ok := s.NumberSorts[sortBy]; ok {
		sort.SliceStable(records, func(i, j int) bool {
			if desc {
				return key(records[i]) > key(records[j])
			}
			return key(records[i]) < key(records[j])
		})
		return
	}

	if key, ok := s.StringSorts[sortBy]; ok {
		sort.SliceStable(records, func(i, j int) bool {
			a, b := strings.ToLower(key(records[i])), strings.ToLower(key(records[j]))
			if desc {
				return a > b
			}
			return a < b
		})
	}
}

// SortKeys lists the keys the schema can sort by
func (s Schema[T]) SortKeys() []string {
	keys := make([]string, 0, len(s.StringSorts)+len(s.NumberSorts))
	for k := range s.StringSorts {
		keys = append(keys, k)
	}
	for k := range s.NumberSorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsAll reports whether a filter value disables the filter
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
