// Package pagination maps a page request onto list indexes.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Window returns the 1-based inclusive index range shown on page. page must be >= 1; it is
// not checked. An empty list yields end == 0.
func Window(page, pageSize, total int) (start, end int) {
	start = (page-1)*pageSize + 1
	end = min(page*pageSize, total)

	return start, end
}

// Page is one page of a list of Total elements.
type Page struct {
	Number int
	Size   int
	Total  int
}

func (p Page) Start() int {
	start, _ := Window(p.Number, p.Size, p.Total)
	return start
}

func (p Page) End() int {
	_, end := Window(p.Number, p.Size, p.Total)
	return end
}

// Offset is the 0-based index of the first element on the page, for LIMIT/OFFSET queries.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Pages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}

	return (p.Total + p.Size - 1) / p.Size
}

func (p Page) HasNext() bool { return p.Number < p.Pages() }
func (p Page) HasPrev() bool { return p.Number > 1 }

// Label renders the "Showing X–Y of Z" caption.
func (p Page) Label() string {
	return fmt.Sprintf("Showing %d–%d of %d", p.Start(), p.End(), p.Total)
}

// FromQuery reads page and page_size, falling back to the first page of DefaultPageSize.
// Out of range values are clamped so Window's precondition holds.
func FromQuery(q url.Values) Page {
	p := Page{Number: 1, Size: DefaultPageSize}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		p.Number = n
	}

	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n >= 1 {
		p.Size = min(n, MaxPageSize)
	}

	return p
}

// Slice returns the elements of all that fall on p, with p.Total set to len(all).
func Slice[T any](all []T, p Page) ([]T, Page) {
	p.Total = len(all)

	from := min(p.Offset(), len(all))
	to := min(from+p.Size, len(all))

	return all[from:to], p
}
