package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/user/streamhub/internal/model"
)

func TestGenreListCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))
	action := seedGenre(t, repos, "Action")

	genres, err := repos.Genre.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.True(t, genres[0].IsActive)

	seedGenre(t, repos, "Biography")
	genres, err = repos.Genre.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	require.NoError(t, repos.Genre.Deactivate(ctx, action.ID))
	genres, err = repos.Genre.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Biography", genres[0].Name)

	all, err := repos.Genre.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGenreDuplicateNameIsTranslated(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	seedGenre(t, repos, "Horror")

	err := repos.Genre.Create(context.Background(), &model.Genre{Name: "Horror"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
