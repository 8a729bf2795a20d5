package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

func TestDayWindow(t *testing.T) {
	day := time.Date(2024, 3, 10, 15, 30, 0, 0, time.Local)
	from, to := DayWindow(day)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local), to)
}

func TestProfileViewsIncludesIdleProfiles(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Ana", "ana@example.com")
	user.Profiles = []model.Profile{
		{ID: "idle", Name: "Idle"},
		{ID: "busy", Name: "Busy"},
	}
	require.NoError(t, repos.User.SaveProfiles(ctx, user))

	a := seedContent(t, repos, &model.Content{Title: "A"})
	b := seedContent(t, repos, &model.Content{Title: "B"})
	c := seedContent(t, repos, &model.Content{Title: "C"})
	_, err := repos.Habit.UpsertProgress(ctx, repository.HabitKey{UserID: user.ID, ContentID: a.ID}, "busy", 120, 600)
	require.NoError(t, err)
	_, err = repos.Habit.UpsertProgress(ctx, repository.HabitKey{UserID: user.ID, ContentID: b.ID}, "busy", 30, 600)
	require.NoError(t, err)
	_, err = repos.Habit.UpsertProgress(ctx, repository.HabitKey{UserID: user.ID, ContentID: c.ID}, "ghost", 50, 600)
	require.NoError(t, err)

	svc := NewStatsService(repos, NewProfileService(repos))
	stats, err := svc.ProfileViews(ctx, user.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "busy", stats[0].ProfileID)
	assert.Equal(t, int64(2), stats[0].ViewCount)
	assert.Equal(t, 150.0, stats[0].TotalDuration)
	assert.Equal(t, "idle", stats[1].ProfileID)
	assert.Equal(t, int64(0), stats[1].ViewCount)

	// 前一天没有记录
	stats, err = svc.ProfileViews(ctx, user.ID, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	for _, s := range stats {
		assert.Zero(t, s.ViewCount)
	}

	_, err = svc.ProfileViews(ctx, 999, time.Time{})
	assert.Equal(t, 404, utils.StatusOf(err))
}

func TestGenrePopularityEmpty(t *testing.T) {
	repos := newTestRepos(t)
	stats, err := NewStatsService(repos, NewProfileService(repos)).GenrePopularity(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
