package repository

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/streamhub/internal/model"
	"gorm.io/gorm"
)

const activeGenresCacheKey = "genres:active"

type GenreRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	// 分类变动很少，缓存 5 分钟，写操作时主动失效
	return &GenreRepository{db: db, cache: cache.New(5*time.Minute, 10*time.Minute)}
}

// List 获取分类列表，includeInactive 为 false 时只返回启用的分类
func (r *GenreRepository) List(ctx context.Context, includeInactive bool) ([]*model.Genre, error) {
	if !includeInactive {
		if cached, found := r.cache.Get(activeGenresCacheKey); found {
			if genres, ok := cached.([]*model.Genre); ok {
				return genres, nil
			}
		}
	}

	var genres []*model.Genre
	db := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&genres).Error; err != nil {
		return nil, err
	}

	if !includeInactive {
		r.cache.SetDefault(activeGenresCacheKey, genres)
	}
	return genres, nil
}

// FindByID 根据 ID 查找分类
func (r *GenreRepository) FindByID(ctx context.Context, id uint) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByName 根据名称查找分类
func (r *GenreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByIDs 根据 ID 批量查找分类
func (r *GenreRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Genre, error) {
	var genres []model.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&genres).Error
	return genres, err
}

// Create 创建分类
func (r *GenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	genre.IsActive = true
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Update 更新分类
func (r *GenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	err := r.db.WithContext(ctx).Model(genre).
		Select("name", "description", "image_url", "is_active", "updated_at").
		Updates(genre).Error
	if err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Deactivate 软删除分类
func (r *GenreRepository) Deactivate(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&model.Genre{}).Where("id = ?", id).Update("is_active", false).Error
	if err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Delete 物理删除分类
func (r *GenreRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Genre{}, id).Error; err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *GenreRepository) invalidate() {
	r.cache.Delete(activeGenresCacheKey)
}
