package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/config"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Content   *service.ContentService
	Genres    *service.GenreService
	Episodes  *service.EpisodeService
	Recommend *service.RecommendService
	Habits    *service.HabitService
	Profiles  *service.ProfileService
	Stats     *service.StatsService
	Users     *service.UserService
}

// NewHandler 创建处理器，rating 为 nil 时不查询外部评分
func NewHandler(repos *repository.Repositories, cfg *config.Config, rating service.RatingLookup) *Handler {
	profiles := service.NewProfileService(repos)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Content:   service.NewContentService(repos, rating),
		Genres:    service.NewGenreService(repos),
		Episodes:  service.NewEpisodeService(repos),
		Recommend: service.NewRecommendService(repos),
		Habits:    service.NewHabitService(repos),
		Profiles:  profiles,
		Stats:     service.NewStatsService(repos, profiles),
		Users:     service.NewUserService(repos, profiles),
	}
}

// contentResponse 内容输出，分类展开为 {id, name}
type contentResponse struct {
	*model.Content
	Genres []model.GenreRef `json:"genres"`
}

func newContentResponse(c *model.Content) contentResponse {
	return contentResponse{Content: c, Genres: c.GenreRefs()}
}

func newContentResponses(items []*model.Content) []contentResponse {
	out := make([]contentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newContentResponse(item))
	}
	return out
}

// parseID 解析路径中的数字 ID
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError("无效的 ID: " + c.Param(name))
	}
	return uint(id), nil
}

// pageParams 从查询参数解析分页
func pageParams(c *gin.Context) utils.PageParams {
	return utils.ParsePageParams(c.Query("page"), c.Query("limit"))
}

// listLimit 首页类接口的 limit，默认 10，最大 50
func listLimit(c *gin.Context) int {
	return utils.ParseLimit(c.Query("limit"), service.DefaultListLimit, service.MaxListLimit)
}

// queryInt 解析可选整数参数，非法值视为未传
func queryInt(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &n
}

func queryUint(c *gin.Context, key string) *uint {
	n, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func queryFloat(c *gin.Context, key string) *float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &f
}

func queryBool(c *gin.Context, key string) *bool {
	b, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &b
}
