package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// GenreInput 创建分类的请求数据
type GenreInput struct {
	Name        string `json:"name" binding:"required,notblank,max=50"`
	Description string `json:"description" binding:"max=500"`
	ImageURL    string `json:"imageUrl"`
}

// GenrePatch 更新分类的请求数据
type GenrePatch struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	ImageURL    *string `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

// GenreService 分类服务
type GenreService struct {
	repos *repository.Repositories
}

func NewGenreService(repos *repository.Repositories) *GenreService {
	return &GenreService{repos: repos}
}

// List 分类列表
func (s *GenreService) List(ctx context.Context, includeInactive bool) ([]*model.Genre, error) {
	return s.repos.Genre.List(ctx, includeInactive)
}

// Get 获取分类
func (s *GenreService) Get(ctx context.Context, id uint) (*model.Genre, error) {
	genre, err := s.repos.Genre.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, utils.NewNotFound("分类不存在")
	}
	return genre, nil
}

// Create 创建分类，名称不可重复
func (s *GenreService) Create(ctx context.Context, in *GenreInput) (*model.Genre, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	genre := &model.Genre{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := s.repos.Genre.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// Update 更新分类
func (s *GenreService) Update(ctx context.Context, id uint, patch *GenrePatch) (*model.Genre, error) {
	genre, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		genre.Name = name
	}
	if patch.Description != nil {
		genre.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		genre.ImageURL = *patch.ImageURL
	}
	if patch.IsActive != nil {
		genre.IsActive = *patch.IsActive
	}

	if err := s.repos.Genre.Update(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// Delete 删除分类：仍被内容引用时只做停用，返回停用后的分类；否则物理删除，返回 nil
func (s *GenreService) Delete(ctx context.Context, id uint) (*model.Genre, error) {
	genre, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.repos.Content.CountByGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	if refs > 0 {
		if err := s.repos.Genre.Deactivate(ctx, id); err != nil {
			return nil, err
		}
		genre.IsActive = false
		log.Info().Uint("id", id).Int64("refs", refs).Msg("[GenreService] 分类仍被引用，已停用")
		return genre, nil
	}

	if err := s.repos.Genre.Delete(ctx, id); err != nil {
		return nil, err
	}
	return nil, nil
}

// Content 分类下的内容（分页）
func (s *GenreService) Content(ctx context.Context, id uint, filter repository.ContentFilter, page utils.PageParams) ([]*model.Content, int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	filter.GenreID = &id
	return s.repos.Content.List(ctx, filter, page.Limit, page.Offset())
}

func (s *GenreService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repos.Genre.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return utils.NewConflict("分类名称已存在")
	}
	return nil
}
