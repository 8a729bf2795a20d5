package model

import "time"

// Episode 剧集分集
type Episode struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"not null"`
	SeasonNumber  int        `json:"seasonNumber" gorm:"not null;uniqueIndex:idx_episode_slot"`
	EpisodeNumber int        `json:"episodeNumber" gorm:"not null;uniqueIndex:idx_episode_slot"`
	Description   string     `json:"description"`
	Duration      int        `json:"duration"` // 分钟
	ReleaseDate   *time.Time `json:"releaseDate"`
	ImageURL      string     `json:"imageUrl"`
	VideoURL      string     `json:"videoUrl"`
	ContentID     uint       `json:"content" gorm:"not null;index;uniqueIndex:idx_episode_slot,priority:1"`
	Views         int64      `json:"views" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Season 按季分组的分集
type Season struct {
	Season   int        `json:"season"`
	Episodes []*Episode `json:"episodes"`
}
