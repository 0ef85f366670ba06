package repository

import "errors"

// DefaultPageSize is the listing page size used across the blog.
const DefaultPageSize = 6

// ErrSlugExhausted is returned when no free slug candidate could be found.
var ErrSlugExhausted = errors.New("no free slug available")

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 1000

// PostListFilter 公开文章列表过滤条件
type PostListFilter struct {
	Search     string
	CategoryID *uint
	Page       int
	PageSize   int
}
