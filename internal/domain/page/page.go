package page

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request is a 1-based page request. Zero values select the first page and the default limit.
type Request struct {
	Page  int
	Limit int
}

// Normalize clamps the request into range using the given default and maximum page size.
func (r Request) Normalize(defaultLimit, maxLimit int) Request {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if last := math.MaxInt / r.Limit; r.Page > last {
		r.Page = last
	}
	return r
}

// Offset is the number of rows to skip. Call on a normalized request.
func (r Request) Offset() int {
	if r.Page <= 1 || r.Limit <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Limit {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Limit
}

// Result is one page of items plus the total row count.
type Result[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func NewResult[T any](items []T, req Request, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Slice returns the window of items selected by a normalized request.
func Slice[T any](items []T, req Request) []T {
	start := req.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + req.Limit
	if end < start || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
