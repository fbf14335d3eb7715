package catalog

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

// DefaultPageSize and MaxPageSize bound list responses.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination carries the resolved page-number parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// PageData is the envelope every list endpoint returns.
type PageData struct {
	Results    any   `json:"results"`
	Page       int   `json:"page"`        // Current page
	PageSize   int   `json:"page_size"`   // Page size
	Total      int64 `json:"total"`       // Total matching rows
	TotalPages int   `json:"total_pages"` // Total pages
}

// ParsePagination reads page/page_size, falling back to defaults on
// absent or out-of-range values.
func ParsePagination(values url.Values) Pagination {
	p := Pagination{Page: 1, PageSize: DefaultPageSize}
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Page = v
		}
	}
	if raw := values.Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= MaxPageSize {
			p.PageSize = v
		}
	}
	return p
}

// Offset converts the page number into a row offset.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginate counts the query, fetches the requested page into dest and
// wraps it in the list envelope.
func Paginate(query *gorm.DB, p Pagination, dest any) (*PageData, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := query.Offset(p.Offset()).Limit(p.PageSize).Find(dest).Error; err != nil {
		return nil, err
	}
	totalPages := (int(total) + p.PageSize - 1) / p.PageSize
	return &PageData{
		Results:    dest,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
