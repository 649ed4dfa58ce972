package dto

import (
	"net/url"
	"reflect"
	"testing"
)

func TestPaginationRequest_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		req        PaginationRequest
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"zero values", PaginationRequest{}, 1, 20, 0},
		{"page 3", PaginationRequest{Page: 3}, 3, 20, 40},
		{"custom size", PaginationRequest{Page: 2, PageSize: 50}, 2, 50, 50},
		{"size capped", PaginationRequest{Page: 2, PageSize: 500}, 2, 100, 100},
		{"negative page", PaginationRequest{Page: -4, PageSize: 10}, 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.GetPage(); got != tt.wantPage {
				t.Errorf("GetPage = %d, want %d", got, tt.wantPage)
			}
			if got := tt.req.GetPageSize(); got != tt.wantSize {
				t.Errorf("GetPageSize = %d, want %d", got, tt.wantSize)
			}
			if got := tt.req.GetOffset(); got != tt.wantOffset {
				t.Errorf("GetOffset = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestNewPager_TotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 10, 10},
	}
	for _, tt := range tests {
		if got := NewPager(1, tt.size, tt.total).TotalPages; got != tt.want {
			t.Errorf("NewPager(total=%d,size=%d).TotalPages = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPager_Window(t *testing.T) {
	p := NewPager(1, 10, 95)
	if !reflect.DeepEqual(p.Pages(), []int{1, 2, 3, 4, 5}) {
		t.Errorf("page 1 window = %v", p.Pages())
	}
	if p.HasPrev() || !p.HasNext() {
		t.Error("page 1 should have next only")
	}

	p = NewPager(10, 10, 95)
	if !reflect.DeepEqual(p.Pages(), []int{6, 7, 8, 9, 10}) {
		t.Errorf("last page window = %v", p.Pages())
	}
	if p.HasNext() {
		t.Error("last page should not have next")
	}
	if p.First() != 91 || p.Last() != 95 {
		t.Errorf("rows = %d-%d, want 91-95", p.First(), p.Last())
	}

	p = NewPager(5, 10, 95)
	if !reflect.DeepEqual(p.Pages(), []int{3, 4, 5, 6, 7}) {
		t.Errorf("middle window = %v", p.Pages())
	}

	if NewPager(1, 20, 5).Pages() != nil {
		t.Error("single page should have no window")
	}
}

func TestPager_LinkKeepsFilters(t *testing.T) {
	q := url.Values{"search": {"dela cruz"}, "page": {"2"}, "tab": {"active"}}
	p := NewPager(2, 20, 100).WithQuery(q)

	got, err := url.ParseQuery(p.Link(3)[1:])
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got.Get("page") != "3" || got.Get("search") != "dela cruz" || got.Get("tab") != "active" {
		t.Errorf("link query = %v", got)
	}
	if q.Get("page") != "2" {
		t.Error("WithQuery must not modify the caller's values")
	}
}
