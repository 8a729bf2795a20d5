package service

import (
	"context"
	"sort"
	"time"

	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
)

// StatsService 统计服务
type StatsService struct {
	repos    *repository.Repositories
	profiles *ProfileService
	now      func() time.Time
}

func NewStatsService(repos *repository.Repositories, profiles *ProfileService) *StatsService {
	return &StatsService{repos: repos, profiles: profiles, now: time.Now}
}

// GenrePopularity 分类热度统计
func (s *StatsService) GenrePopularity(ctx context.Context) ([]*model.GenreStat, error) {
	stats, err := s.repos.Stats.GenrePopularity(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*model.GenreStat{}
	}
	return stats, nil
}

// ProfileViews 各子账号某天的观看统计，day 为零值时统计今天
// 所有子账号都会出现在结果中，不属于当前子账号的记录忽略
func (s *StatsService) ProfileViews(ctx context.Context, userID uint, day time.Time) ([]*model.ProfileViewStat, error) {
	user, err := s.profiles.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if day.IsZero() {
		day = s.now()
	}
	from, to := DayWindow(day)

	rows, err := s.repos.Stats.ProfileViews(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	byProfile := make(map[string]repository.ProfileViewRow, len(rows))
	for _, row := range rows {
		byProfile[row.ProfileID] = row
	}

	stats := make([]*model.ProfileViewStat, 0, len(user.Profiles))
	for _, p := range user.Profiles {
		row := byProfile[p.ID]
		stats = append(stats, &model.ProfileViewStat{
			ProfileID:     p.ID,
			Name:          p.Name,
			Image:         p.Image,
			ViewCount:     row.ViewCount,
			TotalDuration: row.TotalDuration,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ViewCount > stats[j].ViewCount
	})
	return stats, nil
}

// DayWindow 返回 day 所在本地日期的 [00:00, 次日 00:00)
func DayWindow(day time.Time) (time.Time, time.Time) {
	local := day.In(time.Local)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	return from, from.AddDate(0, 0, 1)
}
