// Package pagination wraps result sequences into the counted, paged
// response envelope shared by every list endpoint.
package pagination

import (
	"net/url"
	"strconv"
)

// DefaultPageSize is used when the caller supplies no usable page size.
const DefaultPageSize = 10

// Page is the response envelope.
type Page struct {
	Count       int64            `json:"count"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	Next        *string          `json:"next"`
	Previous    *string          `json:"previous"`
	Results     []map[string]any `json:"results"`
}

// Params is a validated page request.
type Params struct {
	Page     int
	PageSize int
}

// ParseParams reads page/page_size from the query, substituting the default
// size for absent, zero or malformed values and clamping to maxSize.
func ParseParams(q url.Values, defaultSize, maxSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	p := Params{Page: 1, PageSize: defaultSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 {
		p.PageSize = n
	}
	if maxSize > 0 && p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

// Offset returns the row offset for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// New builds the envelope. requestURL, when given, seeds the next/previous
// links; they stay absent at the edges.
func New(results []map[string]any, count int64, p Params, requestURL *url.URL) *Page {
	totalPages := int((count + int64(p.PageSize) - 1) / int64(p.PageSize))
	page := &Page{
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: p.Page,
		Results:     results,
	}
	if results == nil {
		page.Results = []map[string]any{}
	}
	if requestURL != nil {
		if p.Page < totalPages {
			page.Next = pageLink(requestURL, p.Page+1)
		}
		if p.Page > 1 {
			page.Previous = pageLink(requestURL, p.Page-1)
		}
	}
	return page
}

func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
