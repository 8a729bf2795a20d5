package repository

import (
	"context"
	"time"

	"github.com/user/streamhub/internal/model"
	"gorm.io/gorm"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GenrePopularity 按分类汇总播放量和点赞数
// 一个内容属于多个分类时，其数据计入每个分类
func (r *StatsRepository) GenrePopularity(ctx context.Context) ([]*model.GenreStat, error) {
	var stats []*model.GenreStat
	err := r.db.WithContext(ctx).
		Table("content_genres").
		Select(`genres.id AS genre_id, genres.name AS name,
			CAST(COALESCE(SUM(contents.views), 0) AS BIGINT) AS total_views,
			CAST(COALESCE(SUM(contents.likes), 0) AS BIGINT) AS total_likes,
			COUNT(contents.id) AS content_count`).
		Joins("JOIN contents ON contents.id = content_genres.content_id").
		Joins("JOIN genres ON genres.id = content_genres.genre_id").
		Group("genres.id, genres.name").
		Order("total_views DESC, total_likes DESC, genres.id ASC").
		Scan(&stats).Error
	return stats, err
}

// ProfileViewRow 按子账号分组的观看统计行
type ProfileViewRow struct {
	ProfileID     string
	ViewCount     int64
	TotalDuration float64
}

// ProfileViews 统计用户在时间窗口内各子账号的观看次数和时长
func (r *StatsRepository) ProfileViews(ctx context.Context, userID uint, from, to time.Time) ([]ProfileViewRow, error) {
	var rows []ProfileViewRow
	err := r.db.WithContext(ctx).
		Model(&model.ViewingHabit{}).
		Select("profile_id, COUNT(*) AS view_count, COALESCE(SUM(last_position_sec), 0) AS total_duration").
		Where("user_id = ? AND last_watched_at >= ? AND last_watched_at < ?", userID, from, to).
		Group("profile_id").
		Scan(&rows).Error
	return rows, err
}
