package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Page 是一页查询结果以及分页元数据。
type Page[T any] struct {
	Items      []T
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
}

// HasPrevious reports whether a page exists before this one.
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a page exists after this one.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// PreviousNumber is the 1-indexed number of the previous page.
func (p Page[T]) PreviousNumber() int { return p.Number - 1 }

// NextNumber is the 1-indexed number of the next page.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// newPage clamps the requested page number into [1, TotalPages]. An empty
// result still has a single page.
func newPage[T any](number, perPage int, total int64) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page[T]{Number: number, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// paginate counts countQuery and loads the clamped page from dataQuery.
func paginate[T any](countQuery, dataQuery *gorm.DB, number, perPage int) (Page[T], error) {
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	page := newPage[T](number, perPage, total)
	items := make([]T, 0, page.PerPage)
	if total > 0 {
		if err := applyPagination(dataQuery, page.Number, page.PerPage).Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}
	page.Items = items
	return page, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
