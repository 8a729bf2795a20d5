package repository

import (
	"strings"

	"gorm.io/gorm"
)

// 内容排序方式
const (
	SortNewest     = "newest"
	SortTitleAsc   = "title_asc"
	SortTitleDesc  = "title_desc"
	SortYearAsc    = "year_asc"
	SortYearDesc   = "year_desc"
	SortRating     = "rating"
	SortPopularity = "popularity"
)

var contentSortOrders = map[string]string{
	SortNewest:     "contents.created_at DESC, contents.id DESC",
	SortTitleAsc:   "contents.title ASC, contents.id ASC",
	SortTitleDesc:  "contents.title DESC, contents.id DESC",
	SortYearAsc:    "contents.release_year ASC, contents.id ASC",
	SortYearDesc:   "contents.release_year DESC, contents.id DESC",
	SortRating:     "contents.rating DESC, contents.id DESC",
	SortPopularity: "contents.views DESC, contents.likes DESC, contents.id ASC",
}

// 按 field:order 排序时允许的字段
var contentSortFields = map[string]string{
	"title":       "contents.title",
	"releaseYear": "contents.release_year",
	"rating":      "contents.rating",
	"views":       "contents.views",
	"likes":       "contents.likes",
	"createdAt":   "contents.created_at",
}

// ContentFilter 内容查询条件，nil/零值表示不过滤
type ContentFilter struct {
	Type      string
	Search    string
	Year      *int
	YearFrom  *int
	YearTo    *int
	GenreID   *uint
	MinRating *float64
	Sort      string // 排序枚举或 field:order
}

// OrderClause 将排序参数转换为 ORDER BY 子句，未知值回退为最新
func (f ContentFilter) OrderClause() string {
	if order, ok := contentSortOrders[f.Sort]; ok {
		return order
	}
	if field, dir, ok := strings.Cut(f.Sort, ":"); ok {
		if column, ok := contentSortFields[field]; ok {
			switch strings.ToLower(dir) {
			case "asc":
				return column + " ASC, contents.id ASC"
			case "desc":
				return column + " DESC, contents.id DESC"
			}
		}
	}
	return contentSortOrders[SortNewest]
}

// Scope 生成 gorm 查询条件
func (f ContentFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != "" {
			db = db.Where("contents.type = ?", f.Type)
		}
		if kw := strings.TrimSpace(f.Search); kw != "" {
			like := "%" + strings.ToLower(kw) + "%"
			db = db.Where("(LOWER(contents.title) LIKE ? OR LOWER(contents.description) LIKE ?)", like, like)
		}
		if f.Year != nil {
			db = db.Where("contents.release_year = ?", *f.Year)
		}
		if f.YearFrom != nil {
			db = db.Where("contents.release_year >= ?", *f.YearFrom)
		}
		if f.YearTo != nil {
			db = db.Where("contents.release_year <= ?", *f.YearTo)
		}
		if f.GenreID != nil {
			db = db.Where("contents.id IN (SELECT content_id FROM content_genres WHERE genre_id = ?)", *f.GenreID)
		}
		if f.MinRating != nil {
			db = db.Where("contents.rating >= ?", *f.MinRating)
		}
		return db
	}
}
