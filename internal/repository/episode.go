package repository

import (
	"context"
	"errors"

	"github.com/user/streamhub/internal/model"
	"gorm.io/gorm"
)

type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// EpisodeFilter 分集查询条件
type EpisodeFilter struct {
	ContentID *uint
	Season    *int
}

func (f EpisodeFilter) scope(db *gorm.DB) *gorm.DB {
	if f.ContentID != nil {
		db = db.Where("content_id = ?", *f.ContentID)
	}
	if f.Season != nil {
		db = db.Where("season_number = ?", *f.Season)
	}
	return db
}

// List 分页查询分集
func (r *EpisodeRepository) List(ctx context.Context, filter EpisodeFilter, limit, offset int) ([]*model.Episode, int64, error) {
	var episodes []*model.Episode
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Episode{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Scopes(filter.scope).
		Order("content_id ASC, season_number ASC, episode_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&episodes).Error
	return episodes, total, err
}

// ListByContent 获取内容下的全部分集
func (r *EpisodeRepository) ListByContent(ctx context.Context, contentID uint) ([]*model.Episode, error) {
	var episodes []*model.Episode
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("season_number ASC, episode_number ASC").
		Find(&episodes).Error
	return episodes, err
}

// CountByContent 统计内容下的分集数量
func (r *EpisodeRepository) CountByContent(ctx context.Context, contentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Episode{}).Where("content_id = ?", contentID).Count(&count).Error
	return count, err
}

// FindByID 根据 ID 查找分集
func (r *EpisodeRepository) FindByID(ctx context.Context, id uint) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.WithContext(ctx).First(&episode, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// FindSlot 根据 (内容, 季, 集) 查找分集
func (r *EpisodeRepository) FindSlot(ctx context.Context, contentID uint, season, number int) (*model.Episode, error) {
	var episode model.Episode
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND season_number = ? AND episode_number = ?", contentID, season, number).
		First(&episode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// Create 创建分集
func (r *EpisodeRepository) Create(ctx context.Context, episode *model.Episode) error {
	return r.db.WithContext(ctx).Create(episode).Error
}

// Update 更新分集（content 归属不可修改）
func (r *EpisodeRepository) Update(ctx context.Context, episode *model.Episode) error {
	return r.db.WithContext(ctx).Model(episode).
		Select("title", "season_number", "episode_number", "description", "duration",
			"release_date", "image_url", "video_url", "updated_at").
		Updates(episode).Error
}

// Delete 删除分集及其观看记录
func (r *EpisodeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_id = ?", id).Delete(&model.ViewingHabit{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Episode{}, id)
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, err
}

// IncrementViews 播放量 +1
func (r *EpisodeRepository) IncrementViews(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Episode{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return result.RowsAffected > 0, result.Error
}
