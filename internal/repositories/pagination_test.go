package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Navigation(t *testing.T) {
	tests := []struct {
		name                 string
		number, perPage      int
		total                int64
		pages                int
		hasPrev, hasNext     bool
		prevNum, nextNum     int
	}{
		{"empty", 1, 3, 0, 1, false, false, 0, 0},
		{"single page", 1, 3, 3, 1, false, false, 0, 0},
		{"first of three", 1, 3, 7, 3, false, true, 0, 2},
		{"middle", 2, 3, 7, 3, true, true, 1, 3},
		{"last", 3, 3, 7, 3, true, false, 2, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Page[int]{Number: tc.number, PerPage: tc.perPage, Total: tc.total}
			assert.Equal(t, tc.pages, p.Pages())
			assert.Equal(t, tc.hasPrev, p.HasPrev())
			assert.Equal(t, tc.hasNext, p.HasNext())
			assert.Equal(t, tc.prevNum, p.PrevNum())
			assert.Equal(t, tc.nextNum, p.NextNum())
		})
	}
}

func TestPage_IterPages(t *testing.T) {
	p := &Page[int]{Number: 1, PerPage: 1, Total: 3}
	assert.Equal(t, []int{1, 2, 3}, p.IterPages())

	p = &Page[int]{Number: 10, PerPage: 1, Total: 20}
	assert.Equal(t, []int{1, 2, 0, 8, 9, 10, 11, 12, 0, 19, 20}, p.IterPages())

	p = &Page[int]{Number: 1, PerPage: 1, Total: 20}
	assert.Equal(t, []int{1, 2, 3, 0, 19, 20}, p.IterPages())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, offset(0, 3))
	assert.Equal(t, 0, offset(1, 3))
	assert.Equal(t, 6, offset(3, 3))
}
