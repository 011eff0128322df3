// Package listing filters, sorts and paginates collections of named,
// optionally timestamped entries.
package listing

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys
const (
	SortByName = "name"
	SortByDate = "date"
)

// Sort directions
const (
	Asc  = "asc"
	Desc = "desc"
)

// Entry is anything that can appear in a file list.
type Entry interface {
	EntryName() string
	// EntryCreatedAt returns an RFC 3339 timestamp or "" when absent.
	EntryCreatedAt() string
	// SearchText returns extra fields matched by the filter, such as a
	// description or translator name.
	SearchText() []string
}

// Options controls a list view. Zero values select the defaults.
type Options struct {
	Query     string
	SortBy    string // name, date (default)
	Direction string // asc, desc (default)
	Page      int    // 1-based, default 1
	PageSize  int
}

// Page is one slice of a filtered and sorted list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Normalize fills in defaults and rejects unknown sort keys by falling back
// to the default.
func (o Options) Normalize(defaultPageSize int) Options {
	if o.SortBy != SortByName {
		o.SortBy = SortByDate
	}
	if o.Direction != Asc {
		o.Direction = Desc
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.PageSize <= 0 {
		o.PageSize = 20
	}
	return o
}

// Filter returns the entries whose name or search text contains query,
// ignoring case. An empty query keeps everything.
func Filter[T Entry](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q == "" || matches(item, q) {
			out = append(out, item)
		}
	}
	return out
}

func matches(e Entry, q string) bool {
	if strings.Contains(strings.ToLower(e.EntryName()), q) {
		return true
	}
	for _, s := range e.SearchText() {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Sort orders items in place. Names compare with a locale-aware collator.
// When sorting by date, entries without a usable creation time sort as older
// than any dated entry. Ties within either group fall back to the name.
func Sort[T Entry](items []T, sortBy, direction string) {
	// Collators keep internal buffers and are not safe to share.
	col := collate.New(language.Und)
	desc := direction != Asc
	byName := sortBy == SortByName

	slices.SortStableFunc(items, func(a, b T) int {
		c := compareEntries(col, a, b, byName)
		if desc {
			return -c
		}
		return c
	})
}

func compareEntries(col *collate.Collator, a, b Entry, byName bool) int {
	if !byName {
		ta, okA := parseTime(a.EntryCreatedAt())
		tb, okB := parseTime(b.EntryCreatedAt())
		switch {
		case okA && !okB:
			return 1
		case !okA && okB:
			return -1
		case okA && okB:
			if c := ta.Compare(tb); c != 0 {
				return c
			}
		}
	}
	return col.CompareString(a.EntryName(), b.EntryName())
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Paginate returns page p (1-based) of items. Pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = len(items)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// View filters, sorts and paginates items without modifying the input.
func View[T Entry](items []T, opts Options, defaultPageSize int) Page[T] {
	opts = opts.Normalize(defaultPageSize)
	filtered := Filter(items, opts.Query)
	Sort(filtered, opts.SortBy, opts.Direction)
	return Paginate(filtered, opts.Page, opts.PageSize)
}
