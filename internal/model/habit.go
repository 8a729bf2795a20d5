package model

import "time"

// CompletionRatio 播放进度超过该比例视为看完
const CompletionRatio = 0.95

// ViewingHabit 观看记录（进度、点赞、评分）
// EpisodeID 为 0 表示内容级别记录，LastWatchedAt 只在上报进度时写入
type ViewingHabit struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UserID          uint       `json:"user" gorm:"not null;uniqueIndex:idx_habit_key"`
	ContentID       uint       `json:"content" gorm:"not null;uniqueIndex:idx_habit_key;index"`
	EpisodeID       uint       `json:"episode,omitempty" gorm:"not null;default:0;uniqueIndex:idx_habit_key"`
	ProfileID       string     `json:"profileId,omitempty" gorm:"index"`
	LastPositionSec float64    `json:"lastPositionSec" gorm:"not null;default:0"`
	DurationSec     float64    `json:"durationSec" gorm:"not null;default:0"`
	Completed       bool       `json:"completed" gorm:"not null;default:false"`
	Liked           bool       `json:"liked" gorm:"not null;default:false"`
	Rating          *float64   `json:"rating"`
	TimesWatched    int        `json:"timesWatched" gorm:"not null;default:0"`
	LastWatchedAt   *time.Time `json:"lastWatchedAt" gorm:"index"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsCompleted 根据进度判断是否看完（严格大于 95%）
// 用乘法比较，position 恰好等于 0.95*duration 时不算看完
func IsCompleted(positionSec, durationSec float64) bool {
	return durationSec > 0 && positionSec > CompletionRatio*durationSec
}
