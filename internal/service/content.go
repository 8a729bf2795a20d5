package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// 首页列表类接口的数量限制
const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

// ContentInput 创建内容的请求数据
type ContentInput struct {
	Title       string             `json:"title" binding:"required,notblank,max=200"`
	Type        string             `json:"type" binding:"required,oneof=movie series"`
	Description string             `json:"description" binding:"max=5000"`
	ReleaseYear int                `json:"releaseYear" binding:"omitempty,min=1870,max=2100"`
	Genres      []uint             `json:"genres"`
	Rating      *float64           `json:"rating" binding:"omitempty,min=0,max=10"`
	Duration    *int               `json:"duration" binding:"omitempty,min=1"`
	ImageURL    string             `json:"imageUrl"`
	TrailerURL  string             `json:"trailerUrl"`
	VideoURL    string             `json:"videoUrl"`
	Cast        []model.CastMember `json:"cast"`
	Director    string             `json:"director"`
	Producers   []string           `json:"producers"`
}

// ContentPatch 更新内容的请求数据，nil 字段保持不变
type ContentPatch struct {
	Title       *string             `json:"title" binding:"omitempty,notblank,max=200"`
	Type        *string             `json:"type" binding:"omitempty,oneof=movie series"`
	Description *string             `json:"description" binding:"omitempty,max=5000"`
	ReleaseYear *int                `json:"releaseYear" binding:"omitempty,min=1870,max=2100"`
	Genres      *[]uint             `json:"genres"`
	Rating      *float64            `json:"rating" binding:"omitempty,min=0,max=10"`
	Duration    *int                `json:"duration" binding:"omitempty,min=1"`
	ImageURL    *string             `json:"imageUrl"`
	TrailerURL  *string             `json:"trailerUrl"`
	VideoURL    *string             `json:"videoUrl"`
	Cast        *[]model.CastMember `json:"cast"`
	Director    *string             `json:"director"`
	Producers   *[]string           `json:"producers"`
}

// ContentDetail 内容详情，剧集附带分集列表
// Episodes 只对剧集非 nil
type ContentDetail struct {
	Content  *model.Content
	Episodes []*model.Episode
}

// ContentService 内容目录服务
type ContentService struct {
	repos  *repository.Repositories
	rating RatingLookup
}

// NewContentService 创建内容服务，rating 为 nil 时不查询外部评分
func NewContentService(repos *repository.Repositories, rating RatingLookup) *ContentService {
	return &ContentService{repos: repos, rating: rating}
}

// List 分页查询内容
func (s *ContentService) List(ctx context.Context, filter repository.ContentFilter, page utils.PageParams) ([]*model.Content, int64, error) {
	return s.repos.Content.List(ctx, filter, page.Limit, page.Offset())
}

// Get 获取内容详情
func (s *ContentService) Get(ctx context.Context, id uint) (*ContentDetail, error) {
	content, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ContentDetail{Content: content}
	if content.IsSeries() {
		detail.Episodes, err = s.repos.Episode.ListByContent(ctx, id)
		if err != nil {
			return nil, err
		}
		if detail.Episodes == nil {
			detail.Episodes = []*model.Episode{}
		}
	}
	return detail, nil
}

// Create 创建内容，外部评分可用时覆盖提交的评分
func (s *ContentService) Create(ctx context.Context, in *ContentInput) (*model.Content, error) {
	genres, err := s.resolveGenres(ctx, in.Genres)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		Title:       strings.TrimSpace(in.Title),
		Type:        in.Type,
		Description: in.Description,
		ReleaseYear: in.ReleaseYear,
		Genres:      genres,
		Duration:    in.Duration,
		ImageURL:    in.ImageURL,
		TrailerURL:  in.TrailerURL,
		VideoURL:    in.VideoURL,
		Cast:        in.Cast,
		Director:    in.Director,
		Producers:   in.Producers,
	}
	if in.Rating != nil {
		content.Rating = *in.Rating
	}
	content.NormalizeDuration()
	s.mergeExternalRating(ctx, content)

	if err := s.repos.Content.Create(ctx, content); err != nil {
		return nil, err
	}

	log.Info().Uint("id", content.ID).Str("title", content.Title).Msg("[ContentService] 新增内容")
	return s.mustFind(ctx, content.ID)
}

// Update 更新内容，播放量和点赞数不可通过此接口修改
func (s *ContentService) Update(ctx context.Context, id uint, patch *ContentPatch) (*model.Content, error) {
	content, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		content.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Type != nil {
		if content.IsSeries() && *patch.Type != model.ContentTypeSeries {
			count, err := s.repos.Episode.CountByContent(ctx, id)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, utils.NewValidationError("剧集下还有分集，不能改为电影")
			}
		}
		content.Type = *patch.Type
	}
	if patch.Description != nil {
		content.Description = *patch.Description
	}
	if patch.ReleaseYear != nil {
		content.ReleaseYear = *patch.ReleaseYear
	}
	if patch.Rating != nil {
		content.Rating = *patch.Rating
	}
	if patch.Duration != nil {
		content.Duration = patch.Duration
	}
	if patch.ImageURL != nil {
		content.ImageURL = *patch.ImageURL
	}
	if patch.TrailerURL != nil {
		content.TrailerURL = *patch.TrailerURL
	}
	if patch.VideoURL != nil {
		content.VideoURL = *patch.VideoURL
	}
	if patch.Cast != nil {
		content.Cast = *patch.Cast
	}
	if patch.Director != nil {
		content.Director = *patch.Director
	}
	if patch.Producers != nil {
		content.Producers = *patch.Producers
	}

	replaceGenres := patch.Genres != nil
	if replaceGenres {
		content.Genres, err = s.resolveGenres(ctx, *patch.Genres)
		if err != nil {
			return nil, err
		}
	}
	content.NormalizeDuration()

	if err := s.repos.Content.Update(ctx, content, replaceGenres); err != nil {
		return nil, err
	}
	return s.mustFind(ctx, id)
}

// Delete 删除内容（级联删除分集和观看记录）
func (s *ContentService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repos.Content.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.NewNotFound("内容不存在")
	}
	log.Info().Uint("id", id).Msg("[ContentService] 删除内容")
	return nil
}

// RecordView 播放量 +1，返回最新数据
func (s *ContentService) RecordView(ctx context.Context, id uint) (*model.Content, error) {
	ok, err := s.repos.Content.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewNotFound("内容不存在")
	}
	return s.mustFind(ctx, id)
}

// ToggleLike 点赞或取消点赞，取消时不会减到负数
func (s *ContentService) ToggleLike(ctx context.Context, id uint, action string) (*model.Content, error) {
	var delta int
	switch action {
	case "like":
		delta = 1
	case "unlike":
		delta = -1
	default:
		return nil, utils.NewValidationError("action 只能是 like 或 unlike")
	}

	ok, err := s.repos.Content.AdjustLikes(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewNotFound("内容不存在")
	}
	return s.mustFind(ctx, id)
}

// Popular 最热门内容
func (s *ContentService) Popular(ctx context.Context, limit int) ([]*model.Content, error) {
	return s.repos.Content.Popular(ctx, nil, limit)
}

// NewestByGenre 分类下最新内容
func (s *ContentService) NewestByGenre(ctx context.Context, genreID uint, limit int) ([]*model.Content, error) {
	genre, err := s.repos.Genre.FindByID(ctx, genreID)
	if err != nil {
		return nil, err
	}
	if genre == nil {
		return nil, utils.NewNotFound("分类不存在")
	}
	return s.repos.Content.NewestByGenre(ctx, genreID, limit)
}

func (s *ContentService) mustFind(ctx context.Context, id uint) (*model.Content, error) {
	content, err := s.repos.Content.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, utils.NewNotFound("内容不存在")
	}
	return content, nil
}

// resolveGenres 校验分类 ID 均存在，重复 ID 只保留一个
func (s *ContentService) resolveGenres(ctx context.Context, ids []uint) ([]model.Genre, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	genres, err := s.repos.Genre.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		return nil, utils.NewValidationError("包含不存在的分类")
	}
	return genres, nil
}

func (s *ContentService) mergeExternalRating(ctx context.Context, content *model.Content) {
	if s.rating == nil {
		return
	}
	if rating, ok := s.rating.Lookup(ctx, content.Title, content.ReleaseYear); ok {
		log.Debug().Str("title", content.Title).Float64("rating", rating).Msg("[ContentService] 使用外部评分")
		content.Rating = rating
	}
}
