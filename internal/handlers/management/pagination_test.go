package mngmt

import "testing"

func TestNewPagination(t *testing.T) {
	testCases := []struct {
		name        string
		total       int64
		pageNumber  int
		pageSize    int
		wantPages   int
		wantNext    bool
		wantPrev    bool
		wantNumber  int
		wantSize    int
	}{
		{"first of two pages", 3, 1, 2, 2, true, false, 1, 2},
		{"last of two pages", 3, 2, 2, 2, false, true, 2, 2},
		{"single page", 3, 1, 20, 1, false, false, 1, 20},
		{"empty result", 0, 1, 20, 0, false, false, 1, 20},
		{"exact fit", 40, 2, 20, 2, false, true, 2, 20},
		{"zero page number normalized", 10, 0, 5, 2, true, false, 1, 5},
		{"zero page size defaulted", 10, 1, 0, 1, false, false, 1, 20},
		{"oversized page capped", 10, 1, 500, 1, false, false, 1, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.total, tc.pageNumber, tc.pageSize)

			if p.TotalPages != tc.wantPages {
				t.Errorf("TotalPages = %d; want %d", p.TotalPages, tc.wantPages)
			}
			if p.HasNext != tc.wantNext {
				t.Errorf("HasNext = %v; want %v", p.HasNext, tc.wantNext)
			}
			if p.HasPrevious != tc.wantPrev {
				t.Errorf("HasPrevious = %v; want %v", p.HasPrevious, tc.wantPrev)
			}
			if p.PageNumber != tc.wantNumber {
				t.Errorf("PageNumber = %d; want %d", p.PageNumber, tc.wantNumber)
			}
			if p.PageSize != tc.wantSize {
				t.Errorf("PageSize = %d; want %d", p.PageSize, tc.wantSize)
			}
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	testCases := []struct {
		pageNumber int
		pageSize   int
		want       int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{3, 7, 14},
	}

	for _, tc := range testCases {
		p := NewPagination(100, tc.pageNumber, tc.pageSize)
		if got := p.Offset(); got != tc.want {
			t.Errorf("Offset() page=%d size=%d = %d; want %d", tc.pageNumber, tc.pageSize, got, tc.want)
		}
	}
}
