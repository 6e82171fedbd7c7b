package service

import "math"

const MaxPageSize = 100

// Pagination selects one page of a list. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps p into the accepted range using defaultLimit when unset
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	// keeps Page*Limit and Offset from overflowing
	if p.Page > math.MaxInt/p.Limit {
		p.Page = math.MaxInt / p.Limit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
