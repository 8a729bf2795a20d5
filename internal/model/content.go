package model

import (
	"time"
)

// 内容类型
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// Content 影视内容（电影或剧集）
type Content struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null;index"`
	Type        string       `json:"type" gorm:"not null;index"` // movie | series
	Description string       `json:"description"`
	ReleaseYear int          `json:"releaseYear" gorm:"index"`
	Genres      []Genre      `json:"-" gorm:"many2many:content_genres"`
	Rating      float64      `json:"rating" gorm:"index"`
	Duration    *int         `json:"duration"` // 分钟，仅电影有效
	ImageURL    string       `json:"imageUrl"`
	TrailerURL  string       `json:"trailerUrl"`
	VideoURL    string       `json:"videoUrl"`
	Cast        []CastMember `json:"cast" gorm:"serializer:json;type:text"`
	Director    string       `json:"director"`
	Producers   []string     `json:"producers" gorm:"serializer:json;type:text"`
	Likes       int64        `json:"likes" gorm:"not null;default:0;index"`
	Views       int64        `json:"views" gorm:"not null;default:0;index"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CastMember 演员
type CastMember struct {
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	WikipediaLink string `json:"wikipediaLink,omitempty"`
}

// GenreRef 列表中展开的分类引用
type GenreRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// IsSeries 是否为剧集
func (c *Content) IsSeries() bool {
	return c.Type == ContentTypeSeries
}

// GenreIDs 获取分类 ID 列表
func (c *Content) GenreIDs() []uint {
	ids := make([]uint, 0, len(c.Genres))
	for _, g := range c.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// GenreRefs 获取分类引用列表
func (c *Content) GenreRefs() []GenreRef {
	refs := make([]GenreRef, 0, len(c.Genres))
	for _, g := range c.Genres {
		refs = append(refs, GenreRef{ID: g.ID, Name: g.Name})
	}
	return refs
}

// PopularityScore 基础热度分：播放量 + 点赞数 × 5
func (c *Content) PopularityScore() int64 {
	return c.Views + c.Likes*5
}

// NormalizeDuration 时长只对电影有意义
func (c *Content) NormalizeDuration() {
	if c.Type != ContentTypeMovie {
		c.Duration = nil
	}
}
