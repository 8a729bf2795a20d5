package service

import (
	"context"

	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// HabitTarget 观看记录定位：内容必填，分集可选
type HabitTarget struct {
	ContentID uint   `json:"contentId" binding:"required"`
	EpisodeID uint   `json:"episodeId"`
	ProfileID string `json:"profileId"`
}

// ProgressInput 播放进度上报
type ProgressInput struct {
	HabitTarget
	LastPositionSec float64 `json:"lastPositionSec" binding:"min=0"`
	DurationSec     float64 `json:"durationSec" binding:"min=0"`
}

// LikeInput 点赞状态
type LikeInput struct {
	HabitTarget
	Liked *bool `json:"liked" binding:"required"`
}

// RatingInput 用户评分
type RatingInput struct {
	HabitTarget
	Rating *float64 `json:"rating" binding:"required,min=0,max=10"`
}

// LikeResult 点赞结果，Changed 表示状态是否真正变化
type LikeResult struct {
	Habit   *model.ViewingHabit
	Changed bool
}

// HabitService 观看习惯服务
type HabitService struct {
	repos *repository.Repositories
}

func NewHabitService(repos *repository.Repositories) *HabitService {
	return &HabitService{repos: repos}
}

// RecordProgress 记录播放进度
func (s *HabitService) RecordProgress(ctx context.Context, userID uint, in *ProgressInput) (*model.ViewingHabit, error) {
	key, err := s.validate(ctx, userID, &in.HabitTarget)
	if err != nil {
		return nil, err
	}
	return s.repos.Habit.UpsertProgress(ctx, key, in.ProfileID, in.LastPositionSec, in.DurationSec)
}

// SetLike 设置点赞状态，只有内容级别的状态变化会同步到内容点赞数
func (s *HabitService) SetLike(ctx context.Context, userID uint, in *LikeInput) (*LikeResult, error) {
	key, err := s.validate(ctx, userID, &in.HabitTarget)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Habit.EnsureExists(ctx, key, in.ProfileID); err != nil {
		return nil, err
	}
	changed, err := s.repos.Habit.SetLiked(ctx, key, *in.Liked)
	if err != nil {
		return nil, err
	}

	if changed && key.EpisodeID == 0 {
		delta := 1
		if !*in.Liked {
			delta = -1
		}
		if _, err := s.repos.Content.AdjustLikes(ctx, key.ContentID, delta); err != nil {
			return nil, err
		}
	}

	habit, err := s.repos.Habit.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Habit: habit, Changed: changed}, nil
}

// SetRating 设置评分
func (s *HabitService) SetRating(ctx context.Context, userID uint, in *RatingInput) (*model.ViewingHabit, error) {
	key, err := s.validate(ctx, userID, &in.HabitTarget)
	if err != nil {
		return nil, err
	}
	return s.repos.Habit.UpsertRating(ctx, key, in.ProfileID, *in.Rating)
}

// List 用户观看记录
func (s *HabitService) List(ctx context.Context, userID uint, filter repository.HabitFilter, page utils.PageParams) ([]*model.ViewingHabit, int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.repos.Habit.ListByUser(ctx, userID, filter, page.Limit, page.Offset())
}

// ForContent 用户在某内容下的全部记录（内容级别和分集）
func (s *HabitService) ForContent(ctx context.Context, userID, contentID uint) ([]*model.ViewingHabit, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repos.Habit.ListByContent(ctx, userID, contentID)
}

func (s *HabitService) ensureUser(ctx context.Context, userID uint) error {
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewNotFound("用户不存在")
	}
	return nil
}

// validate 校验用户、内容、分集归属和子账号
func (s *HabitService) validate(ctx context.Context, userID uint, t *HabitTarget) (repository.HabitKey, error) {
	key := repository.HabitKey{UserID: userID, ContentID: t.ContentID, EpisodeID: t.EpisodeID}

	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return key, err
	}
	if user == nil {
		return key, utils.NewNotFound("用户不存在")
	}

	content, err := s.repos.Content.FindByID(ctx, t.ContentID)
	if err != nil {
		return key, err
	}
	if content == nil {
		return key, utils.NewNotFound("内容不存在")
	}

	if t.EpisodeID != 0 {
		episode, err := s.repos.Episode.FindByID(ctx, t.EpisodeID)
		if err != nil {
			return key, err
		}
		if episode == nil || episode.ContentID != t.ContentID {
			return key, utils.NewValidationError("分集不属于该内容")
		}
	}

	if t.ProfileID != "" {
		if _, ok := user.FindProfile(t.ProfileID); !ok {
			return key, utils.NewValidationError("子账号不存在")
		}
	}
	return key, nil
}
