package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateSliceIndices(t *testing.T) {
	tests := []struct {
		name              string
		page, size, length int
		wantStart, wantEnd int
	}{
		{name: "first page", page: 1, size: 2, length: 5, wantStart: 0, wantEnd: 2},
		{name: "middle page", page: 2, size: 2, length: 5, wantStart: 2, wantEnd: 4},
		{name: "last partial page", page: 3, size: 2, length: 5, wantStart: 4, wantEnd: 5},
		{name: "page past the end is empty", page: 4, size: 2, length: 5, wantStart: 5, wantEnd: 5},
		{name: "empty input", page: 1, size: 10, length: 0, wantStart: 0, wantEnd: 0},
		{name: "zero page coerced to first", page: 0, size: 2, length: 5, wantStart: 0, wantEnd: 2},
		{name: "zero size coerced to default", page: 1, size: 0, length: 25, wantStart: 0, wantEnd: 10},
		{name: "oversized size coerced to default", page: 1, size: 500, length: 25, wantStart: 0, wantEnd: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tt.page, tt.size, tt.length)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	require.Equal(t, uint64(40), offset)
	require.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(0, 0)
	require.Equal(t, uint64(0), offset)
	require.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	require.Equal(t, 2, info.CurrentPage)
	require.Equal(t, 3, info.TotalPages)
	require.Equal(t, int64(25), info.TotalItems)

	// A page beyond the end is clamped to the last real page.
	info = NewPaginationInfo(25, 9, 10)
	require.Equal(t, 3, info.CurrentPage)

	info = NewPaginationInfo(0, 1, 10)
	require.Equal(t, 1, info.TotalPages)
}
