package models

import (
	"math"

	"gorm.io/gorm"
)

const DefaultLimit = 20

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Pages is the number of pages needed for Total items, 0 when empty
func (p Page[T]) Pages() int {
	if p.Limit < 1 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Paginate counts all rows matched by query and loads the requested page.
// page is 1-based and clamped to 1; limit < 1 falls back to DefaultLimit.
func Paginate[T any](query *gorm.DB, page, limit int, preloads ...string) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	result := Page[T]{Page: page, Limit: limit, Items: []T{}}
	if err := query.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return result, err
	}
	if result.Total == 0 || page-1 > math.MaxInt/limit {
		return result, nil
	}
	offset := (page - 1) * limit
	if int64(offset) >= result.Total {
		return result, nil
	}
	find := query.Session(&gorm.Session{}).Offset(offset).Limit(limit)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}
