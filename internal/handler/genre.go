package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// 分类下内容默认排序
const defaultGenreContentSort = "createdAt:desc"

// ListGenres 分类列表，all=true 时包含已停用分类
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.Genres.List(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, genres)
}

// GetGenre 分类详情
func (h *Handler) GetGenre(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	genre, err := h.Genres.Get(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, genre)
}

// CreateGenre 创建分类
func (h *Handler) CreateGenre(c *gin.Context) {
	var req service.GenreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	genre, err := h.Genres.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, genre)
}

// UpdateGenre 更新分类
func (h *Handler) UpdateGenre(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.GenrePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	genre, err := h.Genres.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, genre)
}

// DeleteGenre 删除分类，仍被引用时改为停用
func (h *Handler) DeleteGenre(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	deactivated, err := h.Genres.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if deactivated != nil {
		utils.Success(c, deactivated)
		return
	}
	utils.Success(c, gin.H{"id": id, "deleted": true})
}

// GenreContent 分类下的内容
func (h *Handler) GenreContent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	filter := repository.ContentFilter{
		Type:      c.Query("type"),
		Year:      queryInt(c, "year"),
		MinRating: queryFloat(c, "minRating"),
		Sort:      c.DefaultQuery("sort", defaultGenreContentSort),
	}
	page := pageParams(c)

	items, total, err := h.Genres.Content(c.Request.Context(), id, filter, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, newContentResponses(items), total, page)
}
