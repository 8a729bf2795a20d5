package service

import (
	"context"
	"time"

	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// EpisodeInput 创建分集的请求数据
type EpisodeInput struct {
	Title         string     `json:"title" binding:"required,notblank,max=200"`
	ContentID     uint       `json:"content" binding:"required"`
	SeasonNumber  int        `json:"seasonNumber" binding:"required,min=1"`
	EpisodeNumber int        `json:"episodeNumber" binding:"required,min=1"`
	Description   string     `json:"description"`
	Duration      int        `json:"duration" binding:"min=0"`
	ReleaseDate   *time.Time `json:"releaseDate"`
	ImageURL      string     `json:"imageUrl"`
	VideoURL      string     `json:"videoUrl"`
}

// EpisodePatch 更新分集的请求数据，所属内容不可修改
type EpisodePatch struct {
	Title         *string    `json:"title" binding:"omitempty,notblank,max=200"`
	SeasonNumber  *int       `json:"seasonNumber" binding:"omitempty,min=1"`
	EpisodeNumber *int       `json:"episodeNumber" binding:"omitempty,min=1"`
	Description   *string    `json:"description"`
	Duration      *int       `json:"duration" binding:"omitempty,min=0"`
	ReleaseDate   *time.Time `json:"releaseDate"`
	ImageURL      *string    `json:"imageUrl"`
	VideoURL      *string    `json:"videoUrl"`
}

// EpisodeService 分集服务
type EpisodeService struct {
	repos *repository.Repositories
}

func NewEpisodeService(repos *repository.Repositories) *EpisodeService {
	return &EpisodeService{repos: repos}
}

// List 分页查询分集
func (s *EpisodeService) List(ctx context.Context, filter repository.EpisodeFilter, page utils.PageParams) ([]*model.Episode, int64, error) {
	return s.repos.Episode.List(ctx, filter, page.Limit, page.Offset())
}

// Get 获取分集
func (s *EpisodeService) Get(ctx context.Context, id uint) (*model.Episode, error) {
	episode, err := s.repos.Episode.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, utils.NewNotFound("分集不存在")
	}
	return episode, nil
}

// Create 创建分集，只能挂在剧集下，同一季同一集不可重复
func (s *EpisodeService) Create(ctx context.Context, in *EpisodeInput) (*model.Episode, error) {
	content, err := s.repos.Content.FindByID(ctx, in.ContentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, utils.NewNotFound("所属内容不存在")
	}
	if !content.IsSeries() {
		return nil, utils.NewValidationError("只有剧集可以添加分集")
	}
	if err := s.ensureSlotFree(ctx, in.ContentID, in.SeasonNumber, in.EpisodeNumber, 0); err != nil {
		return nil, err
	}

	episode := &model.Episode{
		Title:         in.Title,
		ContentID:     in.ContentID,
		SeasonNumber:  in.SeasonNumber,
		EpisodeNumber: in.EpisodeNumber,
		Description:   in.Description,
		Duration:      in.Duration,
		ReleaseDate:   in.ReleaseDate,
		ImageURL:      in.ImageURL,
		VideoURL:      in.VideoURL,
	}
	if err := s.repos.Episode.Create(ctx, episode); err != nil {
		return nil, err
	}
	return episode, nil
}

// Update 更新分集
func (s *EpisodeService) Update(ctx context.Context, id uint, patch *EpisodePatch) (*model.Episode, error) {
	episode, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		episode.Title = *patch.Title
	}
	if patch.SeasonNumber != nil {
		episode.SeasonNumber = *patch.SeasonNumber
	}
	if patch.EpisodeNumber != nil {
		episode.EpisodeNumber = *patch.EpisodeNumber
	}
	if patch.Description != nil {
		episode.Description = *patch.Description
	}
	if patch.Duration != nil {
		episode.Duration = *patch.Duration
	}
	if patch.ReleaseDate != nil {
		episode.ReleaseDate = patch.ReleaseDate
	}
	if patch.ImageURL != nil {
		episode.ImageURL = *patch.ImageURL
	}
	if patch.VideoURL != nil {
		episode.VideoURL = *patch.VideoURL
	}

	if patch.SeasonNumber != nil || patch.EpisodeNumber != nil {
		if err := s.ensureSlotFree(ctx, episode.ContentID, episode.SeasonNumber, episode.EpisodeNumber, id); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Episode.Update(ctx, episode); err != nil {
		return nil, err
	}
	return episode, nil
}

// Delete 删除分集
func (s *EpisodeService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repos.Episode.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.NewNotFound("分集不存在")
	}
	return nil
}

// RecordView 分集播放量 +1
func (s *EpisodeService) RecordView(ctx context.Context, id uint) (*model.Episode, error) {
	ok, err := s.repos.Episode.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewNotFound("分集不存在")
	}
	return s.Get(ctx, id)
}

// BySeason 按季分组返回内容的全部分集
func (s *EpisodeService) BySeason(ctx context.Context, contentID uint) ([]model.Season, error) {
	content, err := s.repos.Content.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, utils.NewNotFound("内容不存在")
	}

	episodes, err := s.repos.Episode.ListByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return GroupBySeason(episodes), nil
}

// GroupBySeason 分集已按 (季, 集) 排序，按季分组
func GroupBySeason(episodes []*model.Episode) []model.Season {
	seasons := []model.Season{}
	for _, ep := range episodes {
		n := len(seasons)
		if n == 0 || seasons[n-1].Season != ep.SeasonNumber {
			seasons = append(seasons, model.Season{Season: ep.SeasonNumber})
			n++
		}
		seasons[n-1].Episodes = append(seasons[n-1].Episodes, ep)
	}
	return seasons
}

func (s *EpisodeService) ensureSlotFree(ctx context.Context, contentID uint, season, number int, selfID uint) error {
	existing, err := s.repos.Episode.FindSlot(ctx, contentID, season, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return utils.NewConflict("该季已存在相同集数")
	}
	return nil
}
