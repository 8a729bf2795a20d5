package repository

import (
	"context"
	"errors"

	"github.com/user/streamhub/internal/model"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// List 按条件分页查询内容，返回当前页数据和总数
// 总数和分页数据并发查询
func (r *ContentRepository) List(ctx context.Context, filter ContentFilter, limit, offset int) ([]*model.Content, int64, error) {
	var items []*model.Content
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&model.Content{}).
			Scopes(filter.Scope()).
			Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Scopes(filter.Scope()).
			Preload("Genres").
			Order(filter.OrderClause()).
			Limit(limit).
			Offset(offset).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FindByID 根据 ID 查找内容（含分类）
func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	err := r.db.WithContext(ctx).Preload("Genres").First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// FindByIDs 根据 ID 批量查找内容，按传入顺序返回
func (r *ContentRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.Content, error) {
	if len(ids) == 0 {
		return []*model.Content{}, nil
	}
	var items []*model.Content
	if err := r.db.WithContext(ctx).Preload("Genres").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Content, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]*model.Content, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// Create 创建内容及其分类关联
func (r *ContentRepository) Create(ctx context.Context, content *model.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

// Update 更新内容字段并替换分类关联
func (r *ContentRepository) Update(ctx context.Context, content *model.Content, replaceGenres bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Likes", "Views", "CreatedAt").Select("*").Updates(content).Error; err != nil {
			return err
		}
		if replaceGenres {
			return tx.Model(content).Association("Genres").Replace(content.Genres)
		}
		return nil
	})
}

// Delete 删除内容，同时清理分集、观看记录和分类关联
func (r *ContentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content := &model.Content{ID: id}
		if err := tx.Model(content).Association("Genres").Clear(); err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&model.Episode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&model.ViewingHabit{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Content{}, id)
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, err
}

// IncrementViews 播放量 +1（原子更新）
func (r *ContentRepository) IncrementViews(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return result.RowsAffected > 0, result.Error
}

// AdjustLikes 点赞数增减，减到 0 为止（原子更新）
func (r *ContentRepository) AdjustLikes(ctx context.Context, id uint, delta int) (bool, error) {
	expr := gorm.Expr("likes + 1")
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")
	}
	result := r.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", id).
		UpdateColumn("likes", expr)
	return result.RowsAffected > 0, result.Error
}

// Popular 获取最热门内容（播放量优先，其次点赞数）
func (r *ContentRepository) Popular(ctx context.Context, excludeIDs []uint, limit int) ([]*model.Content, error) {
	var items []*model.Content
	db := r.db.WithContext(ctx).Preload("Genres")
	if len(excludeIDs) > 0 {
		db = db.Where("id NOT IN ?", excludeIDs)
	}
	err := db.Order("views DESC, likes DESC, id ASC").Limit(limit).Find(&items).Error
	return items, err
}

// NewestByGenre 获取分类下最新内容
func (r *ContentRepository) NewestByGenre(ctx context.Context, genreID uint, limit int) ([]*model.Content, error) {
	var items []*model.Content
	err := r.db.WithContext(ctx).
		Scopes(ContentFilter{GenreID: &genreID}.Scope()).
		Preload("Genres").
		Order(contentSortOrders[SortNewest]).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// RecommendationCandidates 获取推荐候选集
// genreIDs 不为空时只返回至少命中一个分类的内容
func (r *ContentRepository) RecommendationCandidates(ctx context.Context, excludeIDs, genreIDs []uint) ([]*model.Content, error) {
	var items []*model.Content
	db := r.db.WithContext(ctx).Preload("Genres")
	if len(excludeIDs) > 0 {
		db = db.Where("id NOT IN ?", excludeIDs)
	}
	if len(genreIDs) > 0 {
		db = db.Where("id IN (SELECT content_id FROM content_genres WHERE genre_id IN ?)", genreIDs)
	}
	err := db.Find(&items).Error
	return items, err
}

// CountByGenre 统计引用某分类的内容数量
func (r *ContentRepository) CountByGenre(ctx context.Context, genreID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("content_genres").Where("genre_id = ?", genreID).Count(&count).Error
	return count, err
}
