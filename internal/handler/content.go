package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// 剧集总是带 episodes（可能为空数组），电影不带
type contentDetailResponse struct {
	contentResponse
	Episodes *[]*model.Episode `json:"episodes,omitempty"`
}

type recommendationResponse struct {
	contentResponse
	Score           int64 `json:"score"`
	GenreMatchCount int   `json:"genreMatchCount"`
	Fallback        bool  `json:"fallback,omitempty"`
}

type likeRequest struct {
	Action string `json:"action" binding:"required,oneof=like unlike"`
}

// ListContent 内容列表（筛选、排序、分页）
func (h *Handler) ListContent(c *gin.Context) {
	filter := repository.ContentFilter{
		Type:      c.Query("type"),
		Search:    c.Query("search"),
		Year:      queryInt(c, "year"),
		YearFrom:  queryInt(c, "yearFrom"),
		YearTo:    queryInt(c, "yearTo"),
		GenreID:   queryUint(c, "genre"),
		MinRating: queryFloat(c, "minRating"),
		Sort:      c.Query("sort"),
	}
	page := pageParams(c)

	items, total, err := h.Content.List(c.Request.Context(), filter, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, newContentResponses(items), total, page)
}

// GetContent 内容详情，剧集附带分集
func (h *Handler) GetContent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	detail, err := h.Content.Get(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	resp := contentDetailResponse{contentResponse: newContentResponse(detail.Content)}
	if detail.Episodes != nil {
		resp.Episodes = &detail.Episodes
	}
	utils.Success(c, resp)
}

// CreateContent 新增内容（管理后台）
func (h *Handler) CreateContent(c *gin.Context) {
	var req service.ContentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}

	content, err := h.Content.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, newContentResponse(content))
}

// UpdateContent 更新内容（管理后台）
func (h *Handler) UpdateContent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.ContentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}

	content, err := h.Content.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, newContentResponse(content))
}

// DeleteContent 删除内容（管理后台）
func (h *Handler) DeleteContent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Content.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": id, "deleted": true})
}

// ContentView 播放量 +1
func (h *Handler) ContentView(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	content, err := h.Content.RecordView(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": content.ID, "views": content.Views})
}

// ContentLike 点赞/取消点赞
func (h *Handler) ContentLike(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}

	content, err := h.Content.ToggleLike(c.Request.Context(), id, req.Action)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": content.ID, "likes": content.Likes})
}

// PopularContent 最热门内容
func (h *Handler) PopularContent(c *gin.Context) {
	items, err := h.Content.Popular(c.Request.Context(), listLimit(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, newContentResponses(items))
}

// NewestByGenre 分类下最新内容
func (h *Handler) NewestByGenre(c *gin.Context) {
	genreID, err := parseID(c, "genreId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	items, err := h.Content.NewestByGenre(c.Request.Context(), genreID, listLimit(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, newContentResponses(items))
}

// Recommendations 个性化推荐
func (h *Handler) Recommendations(c *gin.Context) {
	// 请求体可以为空
	var req service.RecommendInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Fail(c, err)
		return
	}

	results, err := h.Recommend.Recommend(c.Request.Context(), &req, listLimit(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	out := make([]recommendationResponse, 0, len(results))
	for _, r := range results {
		out = append(out, recommendationResponse{
			contentResponse: newContentResponse(r.Content),
			Score:           r.Score,
			GenreMatchCount: r.GenreMatchCount,
			Fallback:        r.Fallback,
		})
	}
	utils.List(c, out)
}
