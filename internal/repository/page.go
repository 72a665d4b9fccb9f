package repository

import (
	"fmt"
	"strconv"
	"strings"

	"retailapi/internal/model"
)

const (
	// DefaultPageLimit applies when a list request names no limit.
	DefaultPageLimit = 50
	// MaxPageLimit caps the limit a caller may ask for.
	MaxPageLimit = 200
)

// PageQuery holds limit/offset pagination parameters. A zero Limit means no limit.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// Total counts every row matching the filters, not only the returned page.
type PageResult[T any] struct {
	Items []T
	Total int
}

// ParsePage reads "limit" and "offset" query values. Empty values fall back to the defaults.
func ParsePage(limit, offset string) (PageQuery, error) {
	pq := PageQuery{Limit: DefaultPageLimit}
	if v := strings.TrimSpace(limit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageLimit {
			return PageQuery{}, fmt.Errorf("%w: limit must be between 1 and %d, got %q", model.ErrValidation, MaxPageLimit, limit)
		}
		pq.Limit = n
	}
	if v := strings.TrimSpace(offset); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return PageQuery{}, fmt.Errorf("%w: offset must be a non-negative integer, got %q", model.ErrValidation, offset)
		}
		pq.Offset = n
	}
	return pq, nil
}

// Bounded clamps pq into the range list endpoints serve: a missing limit becomes DefaultPageLimit.
func (pq PageQuery) Bounded() PageQuery {
	if pq.Limit <= 0 {
		pq.Limit = DefaultPageLimit
	}
	if pq.Limit > MaxPageLimit {
		pq.Limit = MaxPageLimit
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
	return pq
}

// Window returns the [start, end) slice bounds of pq over n items.
func (pq PageQuery) Window(n int) (int, int) {
	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if pq.Limit > 0 && start+pq.Limit < n {
		end = start + pq.Limit
	}
	return start, end
}

// NewPageResult wraps items, keeping Items non-nil so empty pages encode as [].
func NewPageResult[T any](items []T, total int) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total}
}
