package common

import (
	"gorm.io/gorm"
)

const DefaultPageSize = 20
const MaxPageSize = 100

// Paginate runs a count plus an offset/limit query against the given
// gorm query and returns the page items together with the total count.
func Paginate[T any](query *gorm.DB, page int, pageSize int, order string) ([]T, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	q := query.Session(&gorm.Session{})
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// PageResult is the wire shape for paginated list endpoints.
type PageResult struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
