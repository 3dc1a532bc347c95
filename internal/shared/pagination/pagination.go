package pagination

import (
	"errors"
	"fmt"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidPage = errors.New("invalid pagination parameters")

// Request is a normalized page selection. Page is 1-based.
type Request struct {
	Page  int
	Limit int
}

// Normalize applies defaults to zero values and caps the limit at MaxLimit.
func Normalize(page, limit int) (Request, error) {
	if page < 0 {
		return Request{}, fmt.Errorf("%w: page must be positive", ErrInvalidPage)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive", ErrInvalidPage)
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}, nil
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Page is one slice of a listing plus the numbers needed to navigate it.
type Page[T any] struct {
	Items []T
	Page  int
	Pages int
	Total int
	Limit int
}

func NewPage[T any](items []T, req Request, total int) *Page[T] {
	pages := 0
	if req.Limit > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Page: req.Page, Pages: pages, Total: total, Limit: req.Limit}
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return &Page[U]{Items: out, Page: p.Page, Pages: p.Pages, Total: p.Total, Limit: p.Limit}
}
