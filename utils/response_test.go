package utils

import "testing"

func TestPageCount(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
		{100, 0, 0},
		{100, -1, 0},
	}

	for _, tc := range cases {
		if got := PageCount(tc.total, tc.limit); got != tc.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
