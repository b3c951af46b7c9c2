package pagination

import (
	"math"

	"gorm.io/gorm"
)

// DefaultPageSize is the number of items per page when none is requested.
const DefaultPageSize = 12

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,max=40"`
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// SortOrder maps public sort keys to ORDER BY clauses. The empty key is the
// default order.
type SortOrder map[string]string

// Allows reports whether key is a known sort key.
func (s SortOrder) Allows(key string) bool {
	_, ok := s[key]
	return ok
}

// OrderBy returns a GORM scope ordering by key, or by the default order when
// key is unknown.
func OrderBy(orders SortOrder, key string) func(db *gorm.DB) *gorm.DB {
	clause, ok := orders[key]
	if !ok {
		clause = orders[""]
	}
	return func(db *gorm.DB) *gorm.DB {
		if clause == "" {
			return db
		}
		return db.Order(clause)
	}
}
