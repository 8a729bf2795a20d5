package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/streamhub/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedGenre(t *testing.T, repos *Repositories, name string) *model.Genre {
	t.Helper()
	genre := &model.Genre{Name: name}
	require.NoError(t, repos.Genre.Create(context.Background(), genre))
	return genre
}

func seedContent(t *testing.T, repos *Repositories, c *model.Content, genres ...*model.Genre) *model.Content {
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
