package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/streamhub/internal/config"
	"github.com/user/streamhub/internal/handler"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
	Count      *int              `json:"count"`
	Total      *int64            `json:"total"`
	Pagination *utils.Pagination `json:"pagination"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	h      *handler.Handler
	repos  *repository.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.AutoMigrate(db))

	cfg := &config.Config{
		Env:           "test",
		AppSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		AuthRateLimit: 100,
	}
	repos := repository.NewRepositories(db)
	h := handler.NewHandler(repos, cfg, nil)
	return &testServer{t: t, engine: New(h, nil), h: h, repos: repos}
}

func (s *testServer) do(method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestContentListPagination(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	drama := &model.Genre{Name: "Drama"}
	require.NoError(t, s.repos.Genre.Create(ctx, drama))
	for i := 0; i < 25; i++ {
		c := &model.Content{Title: fmt.Sprintf("Title %02d", i), Type: model.ContentTypeMovie, Genres: []model.Genre{*drama}}
		require.NoError(t, s.repos.Content.Create(ctx, c))
	}

	w, env := s.do(http.MethodGet, "/api/content?page=2&limit=10&sort=title_asc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 10, *env.Count)
	assert.Equal(t, int64(25), *env.Total)
	assert.Equal(t, utils.Pagination{CurrentPage: 2, TotalPages: 3, Limit: 10, HasNextPage: true, HasPrevPage: true}, *env.Pagination)

	items := decode[[]map[string]any](t, env.Data)
	require.Len(t, items, 10)
	assert.Equal(t, "Title 10", items[0]["title"])
	genres := items[0]["genres"].([]any)
	require.Len(t, genres, 1)
	assert.Equal(t, "Drama", genres[0].(map[string]any)["name"])

	// 非法分页参数回退默认值
	_, env = s.do(http.MethodGet, "/api/content?page=-1&limit=abc", nil, "")
	assert.Equal(t, 1, env.Pagination.CurrentPage)
	assert.Equal(t, 10, env.Pagination.Limit)
}

func TestContentErrors(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/content/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	w, _ = s.do(http.MethodGet, "/api/content/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeAndViewEndpoints(t *testing.T) {
	s := newTestServer(t)
	content := &model.Content{Title: "Movie", Type: model.ContentTypeMovie}
	require.NoError(t, s.repos.Content.Create(context.Background(), content))
	path := fmt.Sprintf("/api/content/%d", content.ID)

	type counters struct {
		Likes int64 `json:"likes"`
		Views int64 `json:"views"`
	}

	_, env := s.do(http.MethodPut, path+"/likes", gin.H{"action": "like"}, "")
	assert.Equal(t, int64(1), decode[counters](t, env.Data).Likes)
	_, env = s.do(http.MethodPut, path+"/likes", gin.H{"action": "unlike"}, "")
	assert.Equal(t, int64(0), decode[counters](t, env.Data).Likes)
	_, env = s.do(http.MethodPut, path+"/likes", gin.H{"action": "unlike"}, "")
	assert.Equal(t, int64(0), decode[counters](t, env.Data).Likes)

	w, _ := s.do(http.MethodPut, path+"/likes", gin.H{"action": "love"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = s.do(http.MethodPut, path+"/views", nil, "")
	assert.Equal(t, int64(1), decode[counters](t, env.Data).Views)
}

func TestGenreCreateAndSoftDelete(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/genres", gin.H{"name": "Thriller"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	genre := decode[model.Genre](t, env.Data)
	assert.True(t, genre.IsActive)

	w, _ = s.do(http.MethodPost, "/api/genres", gin.H{"name": "Thriller"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = s.do(http.MethodPost, "/api/genres", gin.H{"name": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	content := &model.Content{Title: "Se7en", Type: model.ContentTypeMovie, Genres: []model.Genre{genre}}
	require.NoError(t, s.repos.Content.Create(context.Background(), content))

	w, env = s.do(http.MethodDelete, fmt.Sprintf("/api/genres/%d", genre.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.Genre](t, env.Data).IsActive)

	_, env = s.do(http.MethodGet, "/api/genres", nil, "")
	assert.Equal(t, 0, *env.Count)
	_, env = s.do(http.MethodGet, "/api/genres?all=true", nil, "")
	assert.Equal(t, 1, *env.Count)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/genres/%d/content", genre.ID), nil, "")
	assert.Equal(t, int64(1), *env.Total)
}

func TestEpisodeEndpoints(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	movie := &model.Content{Title: "Movie", Type: model.ContentTypeMovie}
	series := &model.Content{Title: "Show", Type: model.ContentTypeSeries}
	require.NoError(t, s.repos.Content.Create(ctx, movie))
	require.NoError(t, s.repos.Content.Create(ctx, series))

	body := gin.H{"title": "Pilot", "content": movie.ID, "seasonNumber": 1, "episodeNumber": 1}
	w, _ := s.do(http.MethodPost, "/api/episodes", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["content"] = 999
	w, _ = s.do(http.MethodPost, "/api/episodes", body, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	body["content"] = series.ID
	w, _ = s.do(http.MethodPost, "/api/episodes", body, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	_, env := s.do(http.MethodGet, fmt.Sprintf("/api/episodes/content/%d", series.ID), nil, "")
	seasons := decode[[]model.Season](t, env.Data)
	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].Season)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/content/%d", series.ID), nil, "")
	detail := decode[map[string]any](t, env.Data)
	assert.Len(t, detail["episodes"], 1)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/episodes?content=%d", series.ID), nil, "")
	assert.Equal(t, int64(1), *env.Total)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/content/%d", movie.ID), nil, "")
	assert.NotContains(t, decode[map[string]any](t, env.Data), "episodes")
}

func TestSeriesWithoutEpisodesReturnsEmptyList(t *testing.T) {
	s := newTestServer(t)
	series := &model.Content{Title: "Upcoming", Type: model.ContentTypeSeries}
	require.NoError(t, s.repos.Content.Create(context.Background(), series))

	w, env := s.do(http.MethodGet, fmt.Sprintf("/api/content/%d", series.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[map[string]any](t, env.Data)
	require.Contains(t, detail, "episodes")
	assert.NotNil(t, detail["episodes"])
	assert.Empty(t, detail["episodes"])
}

func TestAuthFlowAndAdminAccess(t *testing.T) {
	s := newTestServer(t)
	register := gin.H{"name": "Ana Lima", "email": "ana@example.com", "password": "secret123"}

	w, env := s.do(http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	data := decode[struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}](t, env.Data)
	assert.NotEmpty(t, data.Token)
	require.Len(t, data.User.Profiles, 1)

	w, _ = s.do(http.MethodPost, "/api/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w1, wrongPassword := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ana@example.com", "password": "nope"}, "")
	w2, unknownEmail := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "who@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, wrongPassword.Error, unknownEmail.Error)

	userToken := s.login("ana@example.com", "secret123")
	w, env = s.do(http.MethodGet, "/api/auth/me", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", decode[model.User](t, env.Data).Email)

	w, _ = s.do(http.MethodGet, "/api/admin/content", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(http.MethodGet, "/api/admin/content", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, err := s.h.Users.EnsureAdmin(context.Background(), "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	adminToken := s.login("root@example.com", "rootpass")

	w, env = s.do(http.MethodPost, "/api/admin/content", gin.H{"title": "Inception", "type": "movie", "rating": 8.1, "duration": 148}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, env.Data)
	assert.Equal(t, 8.1, created["rating"])

	w, _ = s.do(http.MethodPost, "/api/admin/content", gin.H{"title": "Bad", "type": "podcast"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), *env.Total)

	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", data.User.ID), gin.H{"isActive": false}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ana@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, "/api/admin/logs?level=error", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), *env.Total)
	w, _ = s.do(http.MethodGet, "/api/admin/logs?level=verbose", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionCookieAuth(t *testing.T) {
	s := newTestServer(t)
	register := gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"}
	w, _ := s.do(http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "streamhub_session" {
			req.AddCookie(cookie)
		}
	}
	me := httptest.NewRecorder()
	s.engine.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestProfilesAndHabitsEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := &model.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, s.repos.User.Create(context.Background(), user, "secret123"))
	content := &model.Content{Title: "Movie", Type: model.ContentTypeMovie}
	require.NoError(t, s.repos.Content.Create(context.Background(), content))
	base := fmt.Sprintf("/api/profiles/%d", user.ID)

	_, env := s.do(http.MethodGet, base, nil, "")
	assert.Equal(t, 1, *env.Count)

	for i := 0; i < 4; i++ {
		w, _ := s.do(http.MethodPost, base, gin.H{"name": fmt.Sprintf("Kid %d", i)}, "")
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := s.do(http.MethodPost, base, gin.H{"name": "Sixth"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	profiles := decode[[]model.Profile](t, func() json.RawMessage { _, e := s.do(http.MethodGet, base, nil, ""); return e.Data }())
	require.Len(t, profiles, model.MaxProfiles)

	habits := fmt.Sprintf("/api/habits/%d", user.ID)
	progress := gin.H{"contentId": content.ID, "profileId": profiles[0].ID, "lastPositionSec": 95, "durationSec": 100}
	_, env = s.do(http.MethodPut, habits+"/progress", progress, "")
	assert.False(t, decode[model.ViewingHabit](t, env.Data).Completed)

	progress["lastPositionSec"] = 96
	_, env = s.do(http.MethodPut, habits+"/progress", progress, "")
	assert.True(t, decode[model.ViewingHabit](t, env.Data).Completed)

	w, _ = s.do(http.MethodPut, habits+"/rating", gin.H{"contentId": content.ID, "rating": 11}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = s.do(http.MethodPut, habits+"/like", gin.H{"contentId": content.ID, "liked": true}, "")
	assert.True(t, decode[model.ViewingHabit](t, env.Data).Liked)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/stats/profile-views/%d", user.ID), nil, "")
	stats := decode[[]model.ProfileViewStat](t, env.Data)
	require.Len(t, stats, model.MaxProfiles)
	assert.Equal(t, profiles[0].ID, stats[0].ProfileID)
	assert.Equal(t, int64(1), stats[0].ViewCount)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/stats/profile-views/%d?date=yesterday", user.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationsEndpoint(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		c := &model.Content{Title: fmt.Sprintf("C%d", i), Type: model.ContentTypeMovie, Views: int64(i)}
		require.NoError(t, s.repos.Content.Create(context.Background(), c))
	}

	w, env := s.do(http.MethodPost, "/api/content/recommendations?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, *env.Count)

	w, env = s.do(http.MethodPost, "/api/content/recommendations", gin.H{"excludeIds": []uint{1}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Count)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "streamhub_http_requests_total")
}
