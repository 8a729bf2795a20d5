package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// ListEpisodes 分集列表，可按内容和季筛选
func (h *Handler) ListEpisodes(c *gin.Context) {
	filter := repository.EpisodeFilter{
		ContentID: queryUint(c, "content"),
		Season:    queryInt(c, "season"),
	}
	page := pageParams(c)

	episodes, total, err := h.Episodes.List(c.Request.Context(), filter, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, episodes, total, page)
}

// GetEpisode 分集详情
func (h *Handler) GetEpisode(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	episode, err := h.Episodes.Get(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, episode)
}

// CreateEpisode 创建分集
func (h *Handler) CreateEpisode(c *gin.Context) {
	var req service.EpisodeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	episode, err := h.Episodes.Create(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, episode)
}

// UpdateEpisode 更新分集
func (h *Handler) UpdateEpisode(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.EpisodePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	episode, err := h.Episodes.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, episode)
}

// DeleteEpisode 删除分集
func (h *Handler) DeleteEpisode(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.Episodes.Delete(c.Request.Context(), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": id, "deleted": true})
}

// EpisodeView 分集播放量 +1
func (h *Handler) EpisodeView(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	episode, err := h.Episodes.RecordView(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": episode.ID, "views": episode.Views})
}

// EpisodesByContent 按季分组的分集
func (h *Handler) EpisodesByContent(c *gin.Context) {
	contentID, err := parseID(c, "contentId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	seasons, err := h.Episodes.BySeason(c.Request.Context(), contentID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, seasons)
}
