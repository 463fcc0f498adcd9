package domain

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is one page of a list endpoint: {"data": [...], "meta": {...}}.
// Endpoints that return a bare array decode with a zero Meta.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// HasMore reports whether a later page exists.
func (p *Page[T]) HasMore() bool {
	return p.Meta.LastPage > 0 && p.Meta.CurrentPage < p.Meta.LastPage
}
