package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))
	return repository.NewRepositories(db)
}

func seedGenre(t *testing.T, repos *repository.Repositories, name string) *model.Genre {
	t.Helper()
	genre := &model.Genre{Name: name}
	require.NoError(t, repos.Genre.Create(context.Background(), genre))
	return genre
}

func seedContent(t *testing.T, repos *repository.Repositories, c *model.Content, genres ...*model.Genre) *model.Content {
	t.Helper()
	if c.Type == "" {
		c.Type = model.ContentTypeMovie
	}
	for _, g := range genres {
		c.Genres = append(c.Genres, *g)
	}
	require.NoError(t, repos.Content.Create(context.Background(), c))
	return c
}

func seedUser(t *testing.T, repos *repository.Repositories, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email}
	require.NoError(t, repos.User.Create(context.Background(), user, "secret123"))
	return user
}

// fakeRating 固定返回的评分查询
type fakeRating struct {
	rating float64
	found  bool
	calls  int
}

func (f *fakeRating) Lookup(ctx context.Context, title string, year int) (float64, bool) {
	f.calls++
	return f.rating, f.found
}

func ptr[T any](v T) *T {
	return &v
}
