package utils

import (
	"strconv"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 100000
)

// PageParams 分页参数
type PageParams struct {
	Page  int
	Limit int
}

// Offset 计算偏移量
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination 分页信息
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ParsePageParams 解析分页参数，非法值回退为默认值
func ParsePageParams(page, limit string) PageParams {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = DefaultPage
	}
	if p > MaxPage {
		p = MaxPage
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	return PageParams{Page: p, Limit: l}
}

// NewPagination 根据总数计算分页信息
func NewPagination(p PageParams, total int64) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		Limit:       p.Limit,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// ParseLimit 解析 limit 参数，非法值回退为默认值
func ParseLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
