package page

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Request
		want Request
	}{
		{"defaults", Request{}, Request{Page: 1, Limit: 10}},
		{"negative", Request{Page: -3, Limit: -1}, Request{Page: 1, Limit: 10}},
		{"clamped", Request{Page: 2, Limit: 500}, Request{Page: 2, Limit: 100}},
		{"kept", Request{Page: 3, Limit: 25}, Request{Page: 3, Limit: 25}},
		{"huge page", Request{Page: math.MaxInt, Limit: 100}, Request{Page: math.MaxInt / 100, Limit: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize(10, 100))
		})
	}
}

func TestSliceAndTotals(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	req := Request{Page: 2, Limit: 2}

	assert.Equal(t, []int{3, 4}, Slice(items, req))
	assert.Equal(t, []int{}, Slice(items, Request{Page: 4, Limit: 2}))

	res := NewResult(Slice(items, req), req, len(items))
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestHugePageIsPastTheEnd(t *testing.T) {
	req := Request{Page: math.MaxInt, Limit: 100}.Normalize(10, 100)

	assert.GreaterOrEqual(t, req.Offset(), 0)
	assert.Equal(t, []int{}, Slice([]int{1, 2, 3}, req))
	assert.Equal(t, []int{}, Slice([]int{1, 2, 3}, Request{Page: math.MaxInt, Limit: 100}))
}
