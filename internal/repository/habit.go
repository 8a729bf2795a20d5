package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/streamhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HabitKey 观看记录唯一键，EpisodeID 为 0 表示内容级别
type HabitKey struct {
	UserID    uint
	ContentID uint
	EpisodeID uint
}

var habitKeyColumns = []clause.Column{{Name: "user_id"}, {Name: "content_id"}, {Name: "episode_id"}}

type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) whereKey(db *gorm.DB, key HabitKey) *gorm.DB {
	return db.Where("user_id = ? AND content_id = ? AND episode_id = ?", key.UserID, key.ContentID, key.EpisodeID)
}

// Find 根据唯一键查找记录
func (r *HabitRepository) Find(ctx context.Context, key HabitKey) (*model.ViewingHabit, error) {
	var habit model.ViewingHabit
	err := r.whereKey(r.db.WithContext(ctx), key).First(&habit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// UpsertProgress 更新或插入播放进度
// 每次写入判定为看完时 times_watched +1
func (r *HabitRepository) UpsertProgress(ctx context.Context, key HabitKey, profileID string, position, duration float64) (*model.ViewingHabit, error) {
	now := time.Now()
	completed := model.IsCompleted(position, duration)
	inc := 0
	if completed {
		inc = 1
	}

	habit := &model.ViewingHabit{
		UserID:          key.UserID,
		ContentID:       key.ContentID,
		EpisodeID:       key.EpisodeID,
		ProfileID:       profileID,
		LastPositionSec: position,
		DurationSec:     duration,
		Completed:       completed,
		TimesWatched:    inc,
		LastWatchedAt:   &now,
	}

	updates := map[string]interface{}{
		"last_position_sec": position,
		"duration_sec":      duration,
		"completed":         completed,
		"last_watched_at":   now,
		"updated_at":        now,
		"times_watched":     gorm.Expr("viewing_habits.times_watched + ?", inc),
	}
	if profileID != "" {
		updates["profile_id"] = profileID
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   habitKeyColumns,
		DoUpdates: clause.Assignments(updates),
	}).Create(habit).Error
	if err != nil {
		return nil, err
	}

	return r.Find(ctx, key)
}

// EnsureExists 记录不存在时按默认值插入
func (r *HabitRepository) EnsureExists(ctx context.Context, key HabitKey, profileID string) error {
	habit := &model.ViewingHabit{
		UserID:    key.UserID,
		ContentID: key.ContentID,
		EpisodeID: key.EpisodeID,
		ProfileID: profileID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   habitKeyColumns,
		DoNothing: true,
	}).Create(habit).Error
}

// SetLiked 比较并设置点赞状态，只有状态真正改变时返回 true
func (r *HabitRepository) SetLiked(ctx context.Context, key HabitKey, liked bool) (bool, error) {
	result := r.whereKey(r.db.WithContext(ctx).Model(&model.ViewingHabit{}), key).
		Where("liked <> ?", liked).
		Updates(map[string]interface{}{
			"liked":      liked,
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

// UpsertRating 更新或插入评分
func (r *HabitRepository) UpsertRating(ctx context.Context, key HabitKey, profileID string, rating float64) (*model.ViewingHabit, error) {
	now := time.Now()
	habit := &model.ViewingHabit{
		UserID:    key.UserID,
		ContentID: key.ContentID,
		EpisodeID: key.EpisodeID,
		ProfileID: profileID,
		Rating:    &rating,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: habitKeyColumns,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":     rating,
			"updated_at": now,
		}),
	}).Create(habit).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, key)
}

// HabitFilter 观看记录查询条件
type HabitFilter struct {
	ContentID *uint
	Completed *bool
}

// ListByUser 分页获取用户观看记录（最近观看优先）
func (r *HabitRepository) ListByUser(ctx context.Context, userID uint, filter HabitFilter, limit, offset int) ([]*model.ViewingHabit, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.ContentID != nil {
			db = db.Where("content_id = ?", *filter.ContentID)
		}
		if filter.Completed != nil {
			db = db.Where("completed = ?", *filter.Completed)
		}
		return db
	}

	var habits []*model.ViewingHabit
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.ViewingHabit{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Scopes(scope).
		Order("last_watched_at IS NULL, last_watched_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&habits).Error
	return habits, total, err
}

// ListByContent 获取用户在某内容下的全部记录（内容级别 + 分集）
func (r *HabitRepository) ListByContent(ctx context.Context, userID, contentID uint) ([]*model.ViewingHabit, error) {
	var habits []*model.ViewingHabit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Order("episode_id ASC").
		Find(&habits).Error
	return habits, err
}
