package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/utils"
)

func TestProfilesBackfillDefault(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Maria Fernanda Silva", "maria@example.com")

	profiles, err := NewProfileService(repos).List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Maria", profiles[0].Name)
	assert.Equal(t, model.DefaultAvatar, profiles[0].Image)
	assert.NotEmpty(t, profiles[0].ID)

	// 默认子账号已持久化
	stored, err := repos.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Profiles, 1)
	assert.Equal(t, profiles[0].ID, stored.Profiles[0].ID)
}

func TestCreateProfileLimit(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Ana", "ana@example.com")
	svc := NewProfileService(repos)

	// 默认子账号 + 4 个
	for i := 0; i < 4; i++ {
		_, err := svc.Create(ctx, user.ID, &ProfileInput{Name: "Kid"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, user.ID, &ProfileInput{Name: "Sixth"})
	require.Error(t, err)
	assert.Equal(t, 400, utils.StatusOf(err))

	profiles, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, profiles, model.MaxProfiles)
}

func TestCreateProfileNormalizes(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Ana", "ana@example.com")
	svc := NewProfileService(repos)

	p, err := svc.Create(ctx, user.ID, &ProfileInput{Name: "  " + strings.Repeat("n", 30) + " "})
	require.NoError(t, err)
	assert.Len(t, p.Name, model.MaxProfileNameLen)
	assert.Equal(t, model.DefaultAvatar, p.Image)

	_, err = svc.Create(ctx, user.ID, &ProfileInput{Name: "   "})
	assert.Equal(t, 400, utils.StatusOf(err))

	_, err = svc.Create(ctx, 999, &ProfileInput{Name: "x"})
	assert.Equal(t, 404, utils.StatusOf(err))
}

func TestUpdateAndDeleteProfile(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Ana", "ana@example.com")
	svc := NewProfileService(repos)

	p, err := svc.Create(ctx, user.ID, &ProfileInput{Name: "Kid", Image: "/kid.png"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, p.ID, &ProfilePatch{Name: ptr("Junior")})
	require.NoError(t, err)
	assert.Equal(t, "Junior", updated.Name)
	assert.Equal(t, "/kid.png", updated.Image)

	_, err = svc.Update(ctx, user.ID, p.ID, &ProfilePatch{Name: ptr("")})
	assert.Equal(t, 400, utils.StatusOf(err))

	_, err = svc.Update(ctx, user.ID, "missing", &ProfilePatch{Name: ptr("x")})
	assert.Equal(t, 404, utils.StatusOf(err))

	require.NoError(t, svc.Delete(ctx, user.ID, p.ID))
	_, err = svc.Get(ctx, user.ID, p.ID)
	assert.Equal(t, 404, utils.StatusOf(err))

	assert.Equal(t, 404, utils.StatusOf(svc.Delete(ctx, user.ID, p.ID)))
	assert.Equal(t, 404, utils.StatusOf(svc.Delete(ctx, 999, p.ID)))
}

func TestDeleteProfileBackfillsDefault(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "Ana", "ana@example.com")

	err := NewProfileService(repos).Delete(ctx, user.ID, "missing")
	assert.Equal(t, 404, utils.StatusOf(err))

	stored, err := repos.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Profiles, 1)
	assert.Equal(t, "Ana", stored.Profiles[0].Name)
}
