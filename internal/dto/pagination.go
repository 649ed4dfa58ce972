package dto

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	pagerWindow     = 5
)

// PaginationRequest page and page_size query parameters shared by every list page
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// GetPage returns the page number, defaulting to 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size, defaulting to 20 and capped at 100.
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

// GetOffset is (page-1)*page_size.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// Page one page of list results
type Page[T any] struct {
	Items []T
	Pager Pager
}

// Pager drives the pagination links under each table
type Pager struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
	query      url.Values
}

// NewPager computes total pages as ceil(total/pageSize).
func NewPager(page, pageSize int, total int64) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := int(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}
	if page < 1 {
		page = 1
	}
	return Pager{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// WithQuery keeps the current filters in the generated page links.
func (p Pager) WithQuery(q url.Values) Pager {
	clone := url.Values{}
	for k, v := range q {
		if k == "page" {
			continue
		}
		clone[k] = append([]string(nil), v...)
	}
	p.query = clone
	return p
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }
func (p Pager) PrevPage() int { return p.Page - 1 }
func (p Pager) NextPage() int { return p.Page + 1 }

// First and Last are the 1-based row numbers shown in "Showing x-y of z".
func (p Pager) First() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64((p.Page-1)*p.PageSize) + 1
}

func (p Pager) Last() int64 {
	last := int64(p.Page * p.PageSize)
	if last > p.Total {
		return p.Total
	}
	return last
}

// Pages is the window of page numbers around the current page.
func (p Pager) Pages() []int {
	if p.TotalPages <= 1 {
		return nil
	}
	start := p.Page - pagerWindow/2
	if start < 1 {
		start = 1
	}
	end := start + pagerWindow - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - pagerWindow + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Link returns "?<filters>&page=n".
func (p Pager) Link(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// NewPage wraps items with a pager built from the request.
func NewPage[T any](items []T, req *PaginationRequest, total int64) *Page[T] {
	return &Page[T]{
		Items: items,
		Pager: NewPager(req.GetPage(), req.GetPageSize(), total),
	}
}
